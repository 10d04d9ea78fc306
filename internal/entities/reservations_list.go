package entities

import "github.com/dennis6999/ChakaBnB2026-sub000/internal/db"

// ListFilter narrows reservation listings for dashboards. Zero values
// mean "no constraint"; Date filters on the check-in day.
type ListFilter struct {
	PropertyID uint   `json:"property_id,omitempty"`
	HostID     uint   `json:"host_id,omitempty"`
	GuestID    uint   `json:"guest_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Date       string `json:"date,omitempty"` // YYYY-MM-DD
}

type ReservationsList struct {
	Total        int              `json:"total"`
	Reservations []db.Reservation `json:"reservations"`
}
