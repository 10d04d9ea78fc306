package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

// SQLStore is the Postgres-backed catalog and reservation store.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(database *sql.DB) *SQLStore {
	return &SQLStore{DB: database}
}

const reservationColumns = `id, code, property_id, guest_id, kind, check_in, check_out, rooms, guests, total_price, status, note, expires_at, created_at, updated_at`

// occupyingPredicate selects rows that currently hold rooms: confirmed
// bookings, pending bookings that have not expired, and active blocks.
// Placeholders: $N = now.
func occupyingPredicate(nowIdx int) string {
	return fmt.Sprintf(`(
		(kind = 'booking' AND (status = 'confirmed' OR (status = 'pending' AND expires_at > $%d)))
		OR (kind = 'host_block' AND status = 'active')
	)`, nowIdx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Code, &res.PropertyID, &res.GuestID, &res.Kind,
		&res.CheckIn, &res.CheckOut, &res.Rooms, &res.Guests, &res.TotalPrice,
		&res.Status, &res.Note, &res.ExpiresAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *SQLStore) GetProperty(ctx context.Context, id uint) (*db.Property, error) {
	query := `
		SELECT id, host_id, title, type, total_rooms, max_guests_per_room, price_per_night,
		       currency, rating, amenities, free_cancellation, no_prepayment, instant_book,
		       created_at, updated_at
		FROM properties WHERE id = $1`

	var p db.Property
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.HostID, &p.Title, &p.Type, &p.TotalRooms, &p.MaxGuestsPerRoom,
		&p.PricePerNight, &p.Currency, &p.Rating, pq.Array(&p.Amenities),
		&p.FreeCancellation, &p.NoPrepayment, &p.InstantBook, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("property %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying property %d: %w", id, err)
	}
	return &p, nil
}

// OccupyingReservations returns every record that holds rooms and whose
// range overlaps the window. The overlap is half-open on both sides, so a
// stay checking out on the window's first day is excluded.
func (s *SQLStore) OccupyingReservations(ctx context.Context, propertyID uint, window stay.DateRange, now time.Time) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1
		  AND check_in < $3 AND check_out > $2
		  AND ` + occupyingPredicate(4) + `
		ORDER BY check_in ASC`

	rows, err := s.DB.QueryContext(ctx, query, propertyID, window.CheckIn, window.CheckOut, now)
	if err != nil {
		return nil, fmt.Errorf("error querying occupying reservations: %w", err)
	}
	defer rows.Close()

	var out []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		out = append(out, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return out, nil
}

// CreateReservation inserts the record and re-validates, inside the same
// transaction, that no night of the new range ends up holding more rooms
// than the property has. The insert is rolled back with
// ErrConcurrencyConflict when the check fails, so two writers racing past
// the service's admission check can never both land.
func (s *SQLStore) CreateReservation(ctx context.Context, res *db.Reservation, now time.Time) (err error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("error beginning reservation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	insert := `
		INSERT INTO reservations
		(code, property_id, guest_id, kind, check_in, check_out, rooms, guests, total_price, status, note, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	err = tx.QueryRowContext(ctx, insert,
		res.Code, res.PropertyID, res.GuestID, res.Kind, res.CheckIn, res.CheckOut,
		res.Rooms, res.Guests, res.TotalPrice, res.Status, res.Note, res.ExpiresAt,
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}

	// Peak held rooms per night across the new range, new row included.
	validate := `
		WITH nights AS (
			SELECT gs::date AS night
			FROM generate_series($2::date, $3::date - interval '1 day', interval '1 day') AS gs
		)
		SELECT COALESCE(MAX(held.rooms_held), 0) AS peak, p.total_rooms
		FROM properties p
		LEFT JOIN LATERAL (
			SELECT n.night, COALESCE(SUM(r.rooms), 0) AS rooms_held
			FROM nights n
			LEFT JOIN reservations r
				ON r.property_id = $1
				AND r.check_in <= n.night AND r.check_out > n.night
				AND ` + occupyingPredicate(4) + `
			GROUP BY n.night
		) held ON TRUE
		WHERE p.id = $1
		GROUP BY p.total_rooms`

	var peak, totalRooms int
	err = tx.QueryRowContext(ctx, validate, res.PropertyID, res.CheckIn, res.CheckOut, now).Scan(&peak, &totalRooms)
	if err != nil {
		return fmt.Errorf("error validating room inventory: %w", err)
	}
	if peak > totalRooms {
		err = fmt.Errorf("property %d would hold %d of %d rooms: %w", res.PropertyID, peak, totalRooms, ErrConcurrencyConflict)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing reservation: %w", err)
	}
	return nil
}

func (s *SQLStore) GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`
	res, err := scanReservation(s.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reservation '%s': %w", code, err)
	}
	return res, nil
}

func (s *SQLStore) UpdateReservationStatus(ctx context.Context, code, status string) (*db.Reservation, error) {
	query := `UPDATE reservations SET status = $2, updated_at = $3 WHERE code = $1 RETURNING ` + reservationColumns
	res, err := scanReservation(s.DB.QueryRowContext(ctx, query, code, status, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating reservation '%s' to '%s': %w", code, status, err)
	}
	return res, nil
}

// DeleteReservation removes the row outright. Only host blocks are
// deleted; cancelled bookings stay as history.
func (s *SQLStore) DeleteReservation(ctx context.Context, code string) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM reservations WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("error deleting reservation '%s': %w", code, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reservation '%s': %w", code, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListReservations(ctx context.Context, filter entities.ListFilter) ([]db.Reservation, error) {
	query := `
		SELECT ` + prefixedReservationColumns("r") + `
		FROM reservations r
		JOIN properties p ON p.id = r.property_id
		WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.PropertyID != 0 {
		query += fmt.Sprintf(" AND r.property_id = $%d", idx)
		args = append(args, filter.PropertyID)
		idx++
	}
	if filter.HostID != 0 {
		query += fmt.Sprintf(" AND p.host_id = $%d", idx)
		args = append(args, filter.HostID)
		idx++
	}
	if filter.GuestID != 0 {
		query += fmt.Sprintf(" AND r.guest_id = $%d", idx)
		args = append(args, filter.GuestID)
		idx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND r.status = $%d", idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.Date != "" {
		query += fmt.Sprintf(" AND DATE(r.check_in) = $%d", idx)
		args = append(args, filter.Date)
		idx++
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var out []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func prefixedReservationColumns(alias string) string {
	return alias + ".id, " + alias + ".code, " + alias + ".property_id, " + alias + ".guest_id, " +
		alias + ".kind, " + alias + ".check_in, " + alias + ".check_out, " + alias + ".rooms, " +
		alias + ".guests, " + alias + ".total_price, " + alias + ".status, " + alias + ".note, " +
		alias + ".expires_at, " + alias + ".created_at, " + alias + ".updated_at"
}
