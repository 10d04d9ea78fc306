package stay

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrPastCheckIn  = errors.New("check-in date is in the past")
)

// Clock abstracts time.Now so past-date checks and expiry logic are testable.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// DateRange is a half-open stay interval [CheckIn, CheckOut): the guest
// occupies the check-in night and leaves on the check-out day. Both ends
// are normalized to midnight UTC.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// Day normalizes a timestamp to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewRange builds a normalized DateRange. CheckOut must be strictly after
// CheckIn once both are truncated to whole days.
func NewRange(checkIn, checkOut time.Time) (DateRange, error) {
	r := DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
	if !r.CheckOut.After(r.CheckIn) {
		return DateRange{}, fmt.Errorf("check-out %s must be after check-in %s: %w",
			r.CheckOut.Format("2006-01-02"), r.CheckIn.Format("2006-01-02"), ErrInvalidRange)
	}
	return r, nil
}

// Nights is the stay length in whole days.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Touching endpoints (checkout day equals the next check-in day) do not
// overlap.
func Overlaps(a, b DateRange) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

// Clamp restricts r to the window, returning false when they do not overlap.
func (r DateRange) Clamp(window DateRange) (DateRange, bool) {
	if !Overlaps(r, window) {
		return DateRange{}, false
	}
	out := r
	if out.CheckIn.Before(window.CheckIn) {
		out.CheckIn = window.CheckIn
	}
	if out.CheckOut.After(window.CheckOut) {
		out.CheckOut = window.CheckOut
	}
	return out, true
}
