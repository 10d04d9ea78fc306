package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
)

// ListProperties returns the catalog in insertion order, which is also
// the search pipeline's default "top picks" order.
func (s *SQLStore) ListProperties(ctx context.Context) ([]db.Property, error) {
	query := `
		SELECT id, host_id, title, type, total_rooms, max_guests_per_room, price_per_night,
		       currency, rating, amenities, free_cancellation, no_prepayment, instant_book,
		       created_at, updated_at
		FROM properties ORDER BY id ASC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing properties: %w", err)
	}
	defer rows.Close()

	var out []db.Property
	for rows.Next() {
		var p db.Property
		err := rows.Scan(
			&p.ID, &p.HostID, &p.Title, &p.Type, &p.TotalRooms, &p.MaxGuestsPerRoom,
			&p.PricePerNight, &p.Currency, &p.Rating, pq.Array(&p.Amenities),
			&p.FreeCancellation, &p.NoPrepayment, &p.InstantBook, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning property: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePropertyRooms changes the room inventory and nightly price.
// Existing reservations are untouched; subsequent availability reads see
// the new totals immediately.
func (s *SQLStore) UpdatePropertyRooms(ctx context.Context, propertyID uint, totalRooms int, pricePerNight int64) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE properties SET total_rooms = $2, price_per_night = $3, updated_at = NOW() WHERE id = $1`,
		propertyID, totalRooms, pricePerNight)
	if err != nil {
		return fmt.Errorf("error updating property %d rooms: %w", propertyID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
	}
	return nil
}
