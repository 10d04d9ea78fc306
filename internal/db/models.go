package db

import "time"

// Reservation statuses. Blocks only use StatusActive; guest bookings move
// Pending -> Confirmed -> Completed, or Pending/Confirmed -> Cancelled.
// Pending requests the host never answers become Expired.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
	StatusActive    = "active"
)

// Reservation kinds.
const (
	KindBooking   = "booking"
	KindHostBlock = "host_block"
)

type Property struct {
	ID               uint      `json:"id"`
	HostID           uint      `json:"host_id"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	TotalRooms       int       `json:"total_rooms"`
	MaxGuestsPerRoom int       `json:"max_guests_per_room"`
	PricePerNight    int64     `json:"price_per_night"` // minor currency units
	Currency         string    `json:"currency"`
	Rating           float64   `json:"rating"`
	Amenities        []string  `json:"amenities"`
	FreeCancellation bool      `json:"free_cancellation"`
	NoPrepayment     bool      `json:"no_prepayment"`
	InstantBook      bool      `json:"instant_book"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Reservation is both a guest booking and a host block; blocks carry no
// guest and no price but hold rooms exactly like a confirmed booking.
type Reservation struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	PropertyID uint      `json:"property_id"`
	GuestID    uint      `json:"guest_id,omitempty"`
	Kind       string    `json:"kind"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Rooms      int       `json:"rooms"`
	Guests     int       `json:"guests,omitempty"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Occupies reports whether the record holds rooms at the given instant:
// confirmed bookings, pending bookings that have not expired, and active
// host blocks. Cancelled, expired and completed stays never hold rooms.
func (r *Reservation) Occupies(now time.Time) bool {
	switch r.Kind {
	case KindHostBlock:
		return r.Status == StatusActive
	case KindBooking:
		switch r.Status {
		case StatusConfirmed:
			return true
		case StatusPending:
			return r.ExpiresAt.IsZero() || now.Before(r.ExpiresAt)
		}
	}
	return false
}
