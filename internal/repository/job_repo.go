package repository

import (
	"context"
	"fmt"
	"time"
)

// CompletePastCheckouts marks confirmed bookings whose checkout has
// passed as completed. The completed status is a read-time
// classification persisted for listings; availability never depends on
// this job having run.
func (s *SQLStore) CompletePastCheckouts(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE reservations SET status = 'completed', updated_at = $1
		 WHERE kind = 'booking' AND status = 'confirmed' AND check_out <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("error completing past checkouts: %w", err)
	}
	return result.RowsAffected()
}

// ExpireStalePending marks pending bookings past their ExpiresAt as
// expired so they stop holding rooms in listings too. The occupancy
// predicate already ignores them at read time.
func (s *SQLStore) ExpireStalePending(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE reservations SET status = 'expired', updated_at = $1
		 WHERE kind = 'booking' AND status = 'pending' AND expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("error expiring stale pending reservations: %w", err)
	}
	return result.RowsAffected()
}
