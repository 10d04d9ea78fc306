package entities

import "time"

// ReservationRequest is a transient booking attempt; nothing is persisted
// until the engine admits and commits it.
type ReservationRequest struct {
	PropertyID uint      `json:"property_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Rooms      int       `json:"rooms"`
	Guests     int       `json:"guests"`
	Note       string    `json:"note,omitempty"`
}

// BlockRequest marks host-owned dates unavailable. Rooms 0 means the
// whole property is closed for the range.
type BlockRequest struct {
	PropertyID uint      `json:"property_id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Rooms      int       `json:"rooms,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}
