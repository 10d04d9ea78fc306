package service

import (
	"context"
	"log"
	"time"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

// JobStore is the maintenance slice of the store: bulk status sweeps
// that keep persisted rows aligned with the read-time classification.
type JobStore interface {
	CompletePastCheckouts(ctx context.Context, now time.Time) (int64, error)
	ExpireStalePending(ctx context.Context, now time.Time) (int64, error)
}

type JobService struct {
	store JobStore
	clock stay.Clock
}

func NewJobService(store JobStore, clock stay.Clock) *JobService {
	return &JobService{store: store, clock: clock}
}

// SweepReservations persists the derived lifecycle transitions:
// confirmed stays past checkout become completed and pending requests
// past their TTL become expired. Availability reads never wait for this
// sweep; it only keeps dashboards tidy.
func (j *JobService) SweepReservations(ctx context.Context) {
	now := j.clock.Now()

	completed, err := j.store.CompletePastCheckouts(ctx, now)
	if err != nil {
		log.Println("Cron Job: error completing past checkouts:", err)
	} else if completed > 0 {
		log.Printf("Cron Job: marked %d reservation(s) completed", completed)
	}

	expired, err := j.store.ExpireStalePending(ctx, now)
	if err != nil {
		log.Println("Cron Job: error expiring stale pending reservations:", err)
	} else if expired > 0 {
		log.Printf("Cron Job: marked %d reservation(s) expired", expired)
	}
}
