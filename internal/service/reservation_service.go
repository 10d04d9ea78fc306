package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/repository"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

// Actor roles as supplied by the external identity provider. The engine
// only authorizes by role and id; it never authenticates.
const (
	RoleGuest = "guest"
	RoleHost  = "host"
)

type Actor struct {
	UserID uint
	Role   string
}

// pendingTTL is how long a host has to answer a pending request before
// it expires and releases its rooms.
const pendingTTL = 24 * time.Hour

// serviceFeePerRoom is the booking service fee in minor currency units.
const serviceFeePerRoom = 500

// ServiceFee is the documented fee formula: a flat 500 minor units per
// requested room.
func ServiceFee(rooms int) int64 {
	return serviceFeePerRoom * int64(rooms)
}

// Store is the catalog read source and reservation write sink. Reads
// must be at least as fresh as the last successful commit on the same
// property. CreateReservation must be a conditional write: it fails with
// repository.ErrConcurrencyConflict instead of letting the property's
// room inventory be exceeded.
type Store interface {
	GetProperty(ctx context.Context, id uint) (*db.Property, error)
	ListProperties(ctx context.Context) ([]db.Property, error)
	UpdatePropertyRooms(ctx context.Context, propertyID uint, totalRooms int, pricePerNight int64) error
	OccupyingReservations(ctx context.Context, propertyID uint, window stay.DateRange, now time.Time) ([]db.Reservation, error)
	CreateReservation(ctx context.Context, res *db.Reservation, now time.Time) error
	GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error)
	UpdateReservationStatus(ctx context.Context, code, status string) (*db.Reservation, error)
	DeleteReservation(ctx context.Context, code string) error
	ListReservations(ctx context.Context, filter entities.ListFilter) ([]db.Reservation, error)
}

// ReservationService owns the reservation lifecycle. All mutations for
// one property are serialized through a per-property lock so the
// admission check and the write land atomically; reads take no locks and
// are snapshots only.
type ReservationService struct {
	store Store
	clock stay.Clock

	mu        sync.Mutex
	propLocks map[uint]*sync.Mutex
}

func NewReservationService(store Store, clock stay.Clock) *ReservationService {
	return &ReservationService{
		store:     store,
		clock:     clock,
		propLocks: make(map[uint]*sync.Mutex),
	}
}

// propertyLock returns the mutex serializing commits for one property.
// Commits for different properties proceed in parallel.
func (s *ReservationService) propertyLock(propertyID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.propLocks[propertyID]
	if !ok {
		lock = &sync.Mutex{}
		s.propLocks[propertyID] = lock
	}
	return lock
}

func (s *ReservationService) getProperty(ctx context.Context, id uint) (*db.Property, error) {
	p, err := s.store.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("property %d: %w", id, ErrPropertyNotFound)
		}
		return nil, err
	}
	return p, nil
}

func toIntervals(reservations []db.Reservation) []stay.Interval {
	out := make([]stay.Interval, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, stay.Interval{
			Range: stay.DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut},
			Rooms: r.Rooms,
		})
	}
	return out
}

// RoomsAvailable computes the free-room count for the window. It is a
// lock-free snapshot: a positive result is not a hold, and commits
// re-check under the property lock.
func (s *ReservationService) RoomsAvailable(ctx context.Context, propertyID uint, window stay.DateRange) (int, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	occupying, err := s.store.OccupyingReservations(ctx, propertyID, window, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("get occupying reservations: %w", err)
	}
	return stay.RoomsAvailable(property.TotalRooms, toIntervals(occupying), window), nil
}

// CheckAvailability answers a UI availability query for a candidate
// stay.
func (s *ReservationService) CheckAvailability(ctx context.Context, req entities.ReservationRequest) (*entities.AvailabilityResponse, error) {
	window, err := stay.NewRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	rooms := req.Rooms
	if rooms < 1 {
		rooms = 1
	}

	available, err := s.RoomsAvailable(ctx, req.PropertyID, window)
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		PropertyID:         req.PropertyID,
		RequestedCheckIn:   window.CheckIn,
		RequestedCheckOut:  window.CheckOut,
		RoomsAvailable:     available,
		IsOverallAvailable: available >= rooms,
	}
	if !resp.IsOverallAvailable {
		resp.Message = fmt.Sprintf("only %d of %d requested room(s) free", available, rooms)
	}
	return resp, nil
}

// Calendar returns the property's occupied ranges inside the window,
// stripped of guest data. Storefront calendars use it to grey out days.
func (s *ReservationService) Calendar(ctx context.Context, propertyID uint, window stay.DateRange) (*entities.PropertyCalendar, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	occupying, err := s.store.OccupyingReservations(ctx, propertyID, window, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("get occupying reservations: %w", err)
	}

	occupied := make([]entities.OccupiedRange, 0, len(occupying))
	for _, res := range occupying {
		occupied = append(occupied, entities.OccupiedRange{
			CheckIn:  res.CheckIn,
			CheckOut: res.CheckOut,
			Rooms:    res.Rooms,
		})
	}
	return &entities.PropertyCalendar{
		PropertyID: propertyID,
		From:       window.CheckIn,
		To:         window.CheckOut,
		TotalRooms: property.TotalRooms,
		Occupied:   occupied,
	}, nil
}

func (s *ReservationService) validateRequest(req entities.ReservationRequest) (stay.DateRange, error) {
	window, err := stay.NewRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return stay.DateRange{}, err
	}
	if window.CheckIn.Before(stay.Day(s.clock.Now())) {
		return stay.DateRange{}, fmt.Errorf("check-in %s: %w", window.CheckIn.Format("2006-01-02"), stay.ErrPastCheckIn)
	}
	if req.Rooms < 1 {
		return stay.DateRange{}, fmt.Errorf("rooms must be at least 1: %w", ErrInvalidRequest)
	}
	if req.Guests < 1 {
		return stay.DateRange{}, fmt.Errorf("guests must be at least 1: %w", ErrInvalidRequest)
	}
	return window, nil
}

// Quote prices a candidate stay without committing anything.
func (s *ReservationService) Quote(ctx context.Context, propertyID uint, window stay.DateRange, rooms int) (*entities.PriceQuote, error) {
	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	nights := window.Nights()
	subtotal := int64(nights) * property.PricePerNight * int64(rooms)
	fee := ServiceFee(rooms)
	return &entities.PriceQuote{
		PropertyID:    propertyID,
		Nights:        nights,
		Rooms:         rooms,
		PricePerNight: property.PricePerNight,
		RoomSubtotal:  subtotal,
		ServiceFee:    fee,
		TotalPrice:    subtotal + fee,
		Currency:      property.Currency,
	}, nil
}

// CreateReservation admits and commits a booking attempt. The admission
// check runs again under the property lock so two concurrent commits can
// never both observe capacity; the store's conditional write backstops
// the same invariant and is treated as a capacity rejection if it
// triggers.
func (s *ReservationService) CreateReservation(ctx context.Context, req entities.ReservationRequest, actor Actor) (*db.Reservation, error) {
	window, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	lock := s.propertyLock(req.PropertyID)
	lock.Lock()
	defer lock.Unlock()

	property, err := s.getProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	occupying, err := s.store.OccupyingReservations(ctx, req.PropertyID, window, now)
	if err != nil {
		return nil, fmt.Errorf("get occupying reservations: %w", err)
	}
	available := stay.RoomsAvailable(property.TotalRooms, toIntervals(occupying), window)
	if req.Rooms > property.TotalRooms || available < req.Rooms {
		return nil, &OutOfCapacityError{Available: available}
	}

	quote, err := s.Quote(ctx, req.PropertyID, window, req.Rooms)
	if err != nil {
		return nil, err
	}

	status := db.StatusPending
	if property.InstantBook {
		status = db.StatusConfirmed
	}

	res := &db.Reservation{
		Code:       uuid.NewString(),
		PropertyID: req.PropertyID,
		GuestID:    actor.UserID,
		Kind:       db.KindBooking,
		CheckIn:    window.CheckIn,
		CheckOut:   window.CheckOut,
		Rooms:      req.Rooms,
		Guests:     req.Guests,
		TotalPrice: quote.TotalPrice,
		Status:     status,
		Note:       req.Note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == db.StatusPending {
		res.ExpiresAt = now.Add(pendingTTL)
	}

	if err := s.store.CreateReservation(ctx, res, now); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			current, availErr := s.RoomsAvailable(ctx, req.PropertyID, window)
			if availErr != nil {
				current = 0
			}
			return nil, &OutOfCapacityError{Available: current}
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return res, nil
}

// deriveStatus applies read-time classification: a confirmed stay past
// its checkout reads as completed and a pending request past its TTL
// reads as expired, whether or not the background job has persisted
// either yet.
func (s *ReservationService) deriveStatus(res *db.Reservation) *db.Reservation {
	now := s.clock.Now()
	if res.Kind == db.KindBooking {
		if res.Status == db.StatusConfirmed && !res.CheckOut.After(now) {
			res.Status = db.StatusCompleted
		}
		if res.Status == db.StatusPending && !res.ExpiresAt.IsZero() && !res.ExpiresAt.After(now) {
			res.Status = db.StatusExpired
		}
	}
	return res
}

func (s *ReservationService) GetReservation(ctx context.Context, code string) (*db.Reservation, error) {
	res, err := s.store.GetReservationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("reservation '%s': %w", code, ErrReservationNotFound)
		}
		return nil, err
	}
	return s.deriveStatus(res), nil
}

func (s *ReservationService) authorizeBooking(ctx context.Context, res *db.Reservation, actor Actor) error {
	switch actor.Role {
	case RoleGuest:
		if res.GuestID != actor.UserID {
			return fmt.Errorf("guest %d does not own reservation '%s': %w", actor.UserID, res.Code, ErrForbidden)
		}
	case RoleHost:
		property, err := s.getProperty(ctx, res.PropertyID)
		if err != nil {
			return err
		}
		if property.HostID != actor.UserID {
			return fmt.Errorf("host %d does not own property %d: %w", actor.UserID, res.PropertyID, ErrForbidden)
		}
	default:
		return fmt.Errorf("unknown role '%s': %w", actor.Role, ErrForbidden)
	}
	return nil
}

// CancelReservation moves a pending or confirmed booking to cancelled.
// Cancelling an already cancelled booking returns the same record again
// rather than an error, so retries are harmless.
func (s *ReservationService) CancelReservation(ctx context.Context, code string, actor Actor) (*db.Reservation, error) {
	res, err := s.GetReservation(ctx, code)
	if err != nil {
		return nil, err
	}
	if res.Kind != db.KindBooking {
		return nil, fmt.Errorf("'%s' is a host block, not a booking: %w", code, ErrInvalidRequest)
	}
	if err := s.authorizeBooking(ctx, res, actor); err != nil {
		return nil, err
	}

	switch res.Status {
	case db.StatusCancelled:
		return res, nil
	case db.StatusCompleted, db.StatusExpired:
		return nil, fmt.Errorf("reservation '%s' is %s: %w", code, res.Status, ErrAlreadyFinal)
	}

	updated, err := s.store.UpdateReservationStatus(ctx, code, db.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel reservation '%s': %w", code, err)
	}
	return updated, nil
}

// ApproveReservation is the host answering a pending request.
func (s *ReservationService) ApproveReservation(ctx context.Context, code string, actor Actor) (*db.Reservation, error) {
	if actor.Role != RoleHost {
		return nil, fmt.Errorf("only hosts approve reservations: %w", ErrForbidden)
	}

	res, err := s.GetReservation(ctx, code)
	if err != nil {
		return nil, err
	}
	if res.Kind != db.KindBooking {
		return nil, fmt.Errorf("'%s' is a host block, not a booking: %w", code, ErrInvalidRequest)
	}
	if err := s.authorizeBooking(ctx, res, actor); err != nil {
		return nil, err
	}

	switch res.Status {
	case db.StatusPending:
		// fall through to the update
	case db.StatusExpired:
		return nil, fmt.Errorf("reservation '%s': %w", code, ErrExpired)
	default:
		return nil, fmt.Errorf("reservation '%s' is %s, not pending: %w", code, res.Status, ErrAlreadyFinal)
	}

	updated, err := s.store.UpdateReservationStatus(ctx, code, db.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("approve reservation '%s': %w", code, err)
	}
	return updated, nil
}

// BlockDates closes host-owned dates. A block holds every room unless
// the request names a smaller count, and it passes through the same
// capacity gate as a booking: a block can never push a night past the
// property's inventory.
func (s *ReservationService) BlockDates(ctx context.Context, req entities.BlockRequest, actor Actor) (*db.Reservation, error) {
	if actor.Role != RoleHost {
		return nil, fmt.Errorf("only hosts block dates: %w", ErrForbidden)
	}
	window, err := stay.NewRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	lock := s.propertyLock(req.PropertyID)
	lock.Lock()
	defer lock.Unlock()

	property, err := s.getProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.HostID != actor.UserID {
		return nil, fmt.Errorf("host %d does not own property %d: %w", actor.UserID, req.PropertyID, ErrForbidden)
	}

	rooms := req.Rooms
	if rooms <= 0 {
		rooms = property.TotalRooms
	}

	now := s.clock.Now()
	occupying, err := s.store.OccupyingReservations(ctx, req.PropertyID, window, now)
	if err != nil {
		return nil, fmt.Errorf("get occupying reservations: %w", err)
	}
	available := stay.RoomsAvailable(property.TotalRooms, toIntervals(occupying), window)
	if rooms > property.TotalRooms || available < rooms {
		return nil, &OutOfCapacityError{Available: available}
	}

	block := &db.Reservation{
		Code:       uuid.NewString(),
		PropertyID: req.PropertyID,
		Kind:       db.KindHostBlock,
		CheckIn:    window.CheckIn,
		CheckOut:   window.CheckOut,
		Rooms:      rooms,
		Status:     db.StatusActive,
		Note:       req.Reason,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateReservation(ctx, block, now); err != nil {
		if errors.Is(err, repository.ErrConcurrencyConflict) {
			return nil, &OutOfCapacityError{Available: available}
		}
		return nil, fmt.Errorf("create block: %w", err)
	}
	return block, nil
}

// RemoveBlock deletes a host block outright; a removed block leaves no
// historical trace.
func (s *ReservationService) RemoveBlock(ctx context.Context, code string, actor Actor) error {
	if actor.Role != RoleHost {
		return fmt.Errorf("only hosts remove blocks: %w", ErrForbidden)
	}

	res, err := s.GetReservation(ctx, code)
	if err != nil {
		return err
	}
	if res.Kind != db.KindHostBlock {
		return fmt.Errorf("'%s' is a booking, not a host block: %w", code, ErrInvalidRequest)
	}
	property, err := s.getProperty(ctx, res.PropertyID)
	if err != nil {
		return err
	}
	if property.HostID != actor.UserID {
		return fmt.Errorf("host %d does not own property %d: %w", actor.UserID, res.PropertyID, ErrForbidden)
	}

	if err := s.store.DeleteReservation(ctx, code); err != nil {
		return fmt.Errorf("remove block '%s': %w", code, err)
	}
	return nil
}

func (s *ReservationService) ListReservations(ctx context.Context, filter entities.ListFilter) (*entities.ReservationsList, error) {
	reservations, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for i := range reservations {
		s.deriveStatus(&reservations[i])
	}
	return &entities.ReservationsList{Total: len(reservations), Reservations: reservations}, nil
}

// UpdatePropertyRooms changes a property's inventory and nightly price.
// Later availability reads pick the new totals up immediately.
func (s *ReservationService) UpdatePropertyRooms(ctx context.Context, propertyID uint, totalRooms int, pricePerNight int64, actor Actor) error {
	if actor.Role != RoleHost {
		return fmt.Errorf("only hosts update room inventory: %w", ErrForbidden)
	}
	if totalRooms < 1 {
		return fmt.Errorf("total rooms must be at least 1: %w", ErrInvalidRequest)
	}

	property, err := s.getProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if property.HostID != actor.UserID {
		return fmt.Errorf("host %d does not own property %d: %w", actor.UserID, propertyID, ErrForbidden)
	}

	if err := s.store.UpdatePropertyRooms(ctx, propertyID, totalRooms, pricePerNight); err != nil {
		return fmt.Errorf("update property %d rooms: %w", propertyID, err)
	}
	return nil
}
