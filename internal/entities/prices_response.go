package entities

// PriceQuote is the engine's full price breakdown for a candidate stay.
// All amounts are in the property's minor currency units.
type PriceQuote struct {
	PropertyID    uint   `json:"property_id"`
	Nights        int    `json:"nights"`
	Rooms         int    `json:"rooms"`
	PricePerNight int64  `json:"price_per_night"`
	RoomSubtotal  int64  `json:"room_subtotal"`
	ServiceFee    int64  `json:"service_fee"`
	TotalPrice    int64  `json:"total_price"`
	Currency      string `json:"currency"`
}
