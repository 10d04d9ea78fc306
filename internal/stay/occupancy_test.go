package stay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func iv(checkIn, checkOut, rooms int) Interval {
	return Interval{
		Range: DateRange{CheckIn: day(checkIn), CheckOut: day(checkOut)},
		Rooms: rooms,
	}
}

func TestPeakOccupancyCountsSimultaneousHoldsOnly(t *testing.T) {
	window := DateRange{CheckIn: day(10), CheckOut: day(18)}

	// Two stays overlap on [12,15): the peak is 2 even though each stay
	// alone only holds 1.
	peak := PeakOccupancy([]Interval{iv(10, 15, 1), iv(12, 18, 1)}, window)
	assert.Equal(t, 2, peak)

	// Disjoint stays never stack: summing them would say 4.
	peak = PeakOccupancy([]Interval{iv(10, 12, 2), iv(14, 16, 2)}, window)
	assert.Equal(t, 2, peak)
}

func TestPeakOccupancyBackToBackStaysDoNotStack(t *testing.T) {
	window := DateRange{CheckIn: day(10), CheckOut: day(20)}

	// The first stay releases its room on day 15 before the second claims
	// it the same day.
	peak := PeakOccupancy([]Interval{iv(10, 15, 1), iv(15, 20, 1)}, window)
	assert.Equal(t, 1, peak)
}

func TestPeakOccupancyClampsToWindow(t *testing.T) {
	window := DateRange{CheckIn: day(12), CheckOut: day(14)}

	// Both stays overlap the window; their own overlap on [10,12) is
	// outside it and must not count.
	peak := PeakOccupancy([]Interval{iv(8, 12, 3), iv(9, 13, 1)}, window)
	assert.Equal(t, 1, peak)

	// An interval entirely outside the window is invisible.
	peak = PeakOccupancy([]Interval{iv(20, 25, 5)}, window)
	assert.Equal(t, 0, peak)
}

func TestRoomsAvailableFlooredAtZero(t *testing.T) {
	window := DateRange{CheckIn: day(10), CheckOut: day(15)}

	assert.Equal(t, 2, RoomsAvailable(3, []Interval{iv(10, 15, 1)}, window))
	assert.Equal(t, 0, RoomsAvailable(1, []Interval{iv(10, 15, 3)}, window))
	assert.Equal(t, 4, RoomsAvailable(4, nil, window))
}
