package stay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRangeNormalizesToMidnightUTC(t *testing.T) {
	in := time.Date(2026, time.September, 10, 14, 30, 0, 0, time.UTC)
	out := time.Date(2026, time.September, 12, 9, 0, 0, 0, time.UTC)

	r, err := NewRange(in, out)
	require.NoError(t, err)
	assert.Equal(t, day(10), r.CheckIn)
	assert.Equal(t, day(12), r.CheckOut)
	assert.Equal(t, 2, r.Nights())
}

func TestNewRangeRejectsInvertedAndZeroNight(t *testing.T) {
	_, err := NewRange(day(12), day(10))
	assert.ErrorIs(t, err, ErrInvalidRange)

	// Same-day checkout is a zero-night stay.
	_, err = NewRange(day(10), day(10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := DateRange{CheckIn: day(10), CheckOut: day(15)}

	assert.True(t, Overlaps(a, a))
	assert.True(t, Overlaps(a, DateRange{CheckIn: day(14), CheckOut: day(20)}))
	assert.True(t, Overlaps(a, DateRange{CheckIn: day(8), CheckOut: day(11)}))

	// Back-to-back stays share a calendar day but no night.
	assert.False(t, Overlaps(a, DateRange{CheckIn: day(15), CheckOut: day(20)}))
	assert.False(t, Overlaps(a, DateRange{CheckIn: day(5), CheckOut: day(10)}))
}

func TestClamp(t *testing.T) {
	window := DateRange{CheckIn: day(10), CheckOut: day(20)}

	clamped, ok := DateRange{CheckIn: day(5), CheckOut: day(25)}.Clamp(window)
	require.True(t, ok)
	assert.Equal(t, window, clamped)

	inside := DateRange{CheckIn: day(12), CheckOut: day(14)}
	clamped, ok = inside.Clamp(window)
	require.True(t, ok)
	assert.Equal(t, inside, clamped)

	_, ok = DateRange{CheckIn: day(20), CheckOut: day(22)}.Clamp(window)
	assert.False(t, ok)
}
