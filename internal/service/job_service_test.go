package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
)

func TestSweepReservationsPersistsDerivedStatuses(t *testing.T) {
	property := testProperty()
	property.InstantBook = false
	svc, store, clock := newFixture(t, property)
	ctx := context.Background()

	pending, err := svc.CreateReservation(ctx, bookingReq(10, 12, 1, 2), guest())
	require.NoError(t, err)

	confirmed, err := svc.CreateReservation(ctx, bookingReq(10, 12, 1, 2), guest())
	require.NoError(t, err)
	_, err = svc.ApproveReservation(ctx, confirmed.Code, host())
	require.NoError(t, err)

	clock.Advance(30 * 24 * time.Hour)
	NewJobService(store, clock).SweepReservations(ctx)

	// The sweep writes the statuses the read path was already deriving,
	// so the stored rows match listings exactly.
	list, err := svc.ListReservations(ctx, entities.ListFilter{GuestID: testGuestID})
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)

	byCode := map[string]string{}
	for _, r := range list.Reservations {
		byCode[r.Code] = r.Status
	}
	assert.Equal(t, db.StatusExpired, byCode[pending.Code])
	assert.Equal(t, db.StatusCompleted, byCode[confirmed.Code])

	raw, err := store.GetReservationByCode(ctx, pending.Code)
	require.NoError(t, err)
	assert.Equal(t, db.StatusExpired, raw.Status)
}
