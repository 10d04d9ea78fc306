package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

// MemoryStore keeps the whole catalog in process. It backs local
// development and the test suite; the method set mirrors SQLStore
// exactly, including the conditional-write check in CreateReservation.
type MemoryStore struct {
	mu           sync.Mutex
	properties   map[uint]*db.Property
	reservations map[string]*db.Reservation
	nextID       int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		properties:   make(map[uint]*db.Property),
		reservations: make(map[string]*db.Reservation),
	}
}

// SeedProperty registers or replaces a property record.
func (m *MemoryStore) SeedProperty(p db.Property) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := p
	m.properties[p.ID] = &cp
}

func (m *MemoryStore) GetProperty(_ context.Context, id uint) (*db.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[id]
	if !ok {
		return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListProperties(_ context.Context) ([]db.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]db.Property, 0, len(m.properties))
	for _, p := range m.properties {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdatePropertyRooms(_ context.Context, propertyID uint, totalRooms int, pricePerNight int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[propertyID]
	if !ok {
		return fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
	}
	p.TotalRooms = totalRooms
	p.PricePerNight = pricePerNight
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) OccupyingReservations(_ context.Context, propertyID uint, window stay.DateRange, now time.Time) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.occupyingLocked(propertyID, window, now), nil
}

func (m *MemoryStore) occupyingLocked(propertyID uint, window stay.DateRange, now time.Time) []db.Reservation {
	var out []db.Reservation
	for _, res := range m.reservations {
		if res.PropertyID != propertyID || !res.Occupies(now) {
			continue
		}
		if !stay.Overlaps(stay.DateRange{CheckIn: res.CheckIn, CheckOut: res.CheckOut}, window) {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (m *MemoryStore) CreateReservation(_ context.Context, res *db.Reservation, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.properties[res.PropertyID]
	if !ok {
		return fmt.Errorf("property %d: %w", res.PropertyID, ErrNotFound)
	}

	window := stay.DateRange{CheckIn: res.CheckIn, CheckOut: res.CheckOut}
	intervals := []stay.Interval{{Range: window, Rooms: res.Rooms}}
	for _, existing := range m.occupyingLocked(res.PropertyID, window, now) {
		intervals = append(intervals, stay.Interval{
			Range: stay.DateRange{CheckIn: existing.CheckIn, CheckOut: existing.CheckOut},
			Rooms: existing.Rooms,
		})
	}
	if peak := stay.PeakOccupancy(intervals, window); peak > p.TotalRooms {
		return fmt.Errorf("property %d would hold %d of %d rooms: %w",
			res.PropertyID, peak, p.TotalRooms, ErrConcurrencyConflict)
	}

	m.nextID++
	res.ID = m.nextID
	cp := *res
	m.reservations[res.Code] = &cp
	return nil
}

func (m *MemoryStore) GetReservationByCode(_ context.Context, code string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[code]
	if !ok {
		return nil, fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

func (m *MemoryStore) UpdateReservationStatus(_ context.Context, code, status string) (*db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[code]
	if !ok {
		return nil, fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
	}
	res.Status = status
	res.UpdatedAt = time.Now().UTC()
	cp := *res
	return &cp, nil
}

func (m *MemoryStore) DeleteReservation(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reservations[code]; !ok {
		return fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
	}
	delete(m.reservations, code)
	return nil
}

func (m *MemoryStore) ListReservations(_ context.Context, filter entities.ListFilter) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []db.Reservation
	for _, res := range m.reservations {
		if filter.PropertyID != 0 && res.PropertyID != filter.PropertyID {
			continue
		}
		if filter.GuestID != 0 && res.GuestID != filter.GuestID {
			continue
		}
		if filter.HostID != 0 {
			p, ok := m.properties[res.PropertyID]
			if !ok || p.HostID != filter.HostID {
				continue
			}
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		if filter.Date != "" && res.CheckIn.Format("2006-01-02") != filter.Date {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) CompletePastCheckouts(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, res := range m.reservations {
		if res.Kind == db.KindBooking && res.Status == db.StatusConfirmed && !res.CheckOut.After(now) {
			res.Status = db.StatusCompleted
			res.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) ExpireStalePending(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, res := range m.reservations {
		if res.Kind == db.KindBooking && res.Status == db.StatusPending && !res.ExpiresAt.IsZero() && res.ExpiresAt.Before(now) {
			res.Status = db.StatusExpired
			res.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
