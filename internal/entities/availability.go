package entities

import "time"

type AvailabilityResponse struct {
	PropertyID         uint      `json:"property_id"`
	RequestedCheckIn   time.Time `json:"requested_check_in"`
	RequestedCheckOut  time.Time `json:"requested_check_out"`
	RoomsAvailable     int       `json:"rooms_available"`
	IsOverallAvailable bool      `json:"is_overall_available"`
	Message            string    `json:"message,omitempty"`
}

// OccupiedRange is one sanitized hold on a property's calendar. It
// carries no guest data, so it is safe to serve publicly for greying out
// calendar days.
type OccupiedRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Rooms    int       `json:"rooms"`
}

type PropertyCalendar struct {
	PropertyID uint            `json:"property_id"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	TotalRooms int             `json:"total_rooms"`
	Occupied   []OccupiedRange `json:"occupied"`
}
