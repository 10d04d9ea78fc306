package stay

import "sort"

// Interval is one occupying claim on a property's rooms: a pending or
// confirmed booking, or a host block.
type Interval struct {
	Range DateRange
	Rooms int
}

// PeakOccupancy returns the maximum number of simultaneously held rooms
// inside the query window. A naive sum over overlapping intervals would
// over-count bookings that occupy disjoint sub-ranges of the window, and
// the per-interval maximum under-counts partially overlapping ones, so
// this sweeps the interval boundaries instead: every check-in adds its
// rooms, every check-out releases them, and the running total is tracked
// across the window.
func PeakOccupancy(intervals []Interval, window DateRange) int {
	type event struct {
		at    int64
		rooms int
	}

	events := make([]event, 0, 2*len(intervals))
	for _, iv := range intervals {
		clamped, ok := iv.Range.Clamp(window)
		if !ok || iv.Rooms <= 0 {
			continue
		}
		events = append(events, event{at: clamped.CheckIn.Unix(), rooms: iv.Rooms})
		events = append(events, event{at: clamped.CheckOut.Unix(), rooms: -iv.Rooms})
	}

	// Releases sort before claims at the same instant: ranges are
	// half-open, so a stay checking out on day D never collides with one
	// checking in on day D.
	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].rooms < events[j].rooms
	})

	var held, peak int
	for _, ev := range events {
		held += ev.rooms
		if held > peak {
			peak = held
		}
	}
	return peak
}

// RoomsAvailable is the free-room count for the window given the
// property's total inventory, floored at zero.
func RoomsAvailable(totalRooms int, intervals []Interval, window DateRange) int {
	free := totalRooms - PeakOccupancy(intervals, window)
	if free < 0 {
		return 0
	}
	return free
}
