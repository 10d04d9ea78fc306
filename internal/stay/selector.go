package stay

import "time"

// SelectorState says which endpoint the next day click will set.
type SelectorState int

const (
	SelectingCheckIn SelectorState = iota + 1
	SelectingCheckOut
)

// Selector turns a sequence of calendar day clicks into a validated
// check-in/check-out pair. It is pure and synchronous; the caller owns
// any event loop and forwards the completed range to availability or
// booking calls.
type Selector struct {
	state    SelectorState
	checkIn  time.Time
	checkOut time.Time
	clock    Clock
}

func NewSelector(clock Clock) *Selector {
	return &Selector{state: SelectingCheckIn, clock: clock}
}

// ResumeSelector starts from an already chosen check-in, e.g. when the
// calendar reopens mid-selection.
func ResumeSelector(clock Clock, checkIn time.Time) *Selector {
	return &Selector{state: SelectingCheckOut, checkIn: Day(checkIn), clock: clock}
}

func (s *Selector) State() SelectorState { return s.state }

func (s *Selector) CheckIn() (time.Time, bool) {
	return s.checkIn, !s.checkIn.IsZero()
}

func (s *Selector) CheckOut() (time.Time, bool) {
	return s.checkOut, !s.checkOut.IsZero()
}

// Click feeds one day click into the machine.
//
// Selecting a check-in ignores past days. Selecting a check-out treats a
// click on or before the current check-in as a restart: the clicked day
// becomes the new check-in and the machine keeps waiting for a check-out.
func (s *Selector) Click(day time.Time) {
	d := Day(day)

	switch s.state {
	case SelectingCheckIn:
		if d.Before(Day(s.clock.Now())) {
			return
		}
		s.checkIn = d
		s.checkOut = time.Time{}
		s.state = SelectingCheckOut
	case SelectingCheckOut:
		if !d.After(s.checkIn) {
			s.checkIn = d
			s.checkOut = time.Time{}
			return
		}
		s.checkOut = d
		s.state = SelectingCheckIn
	}
}

// Clear resets both dates.
func (s *Selector) Clear() {
	s.checkIn = time.Time{}
	s.checkOut = time.Time{}
	s.state = SelectingCheckIn
}

// Done returns the completed range once both dates are set. It does not
// change the machine; acknowledging the selection is a UI concern.
func (s *Selector) Done() (DateRange, bool) {
	if s.checkIn.IsZero() || s.checkOut.IsZero() {
		return DateRange{}, false
	}
	r, err := NewRange(s.checkIn, s.checkOut)
	if err != nil {
		return DateRange{}, false
	}
	return r, true
}
