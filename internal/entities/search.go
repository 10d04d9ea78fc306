package entities

import "time"

// Sort orders for search results. Ties keep catalog insertion order.
const (
	SortTopPicks  = "top_picks"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// SearchCriteria composes every filter of one catalog search. It is
// passed explicitly into the pipeline; there is no session state.
type SearchCriteria struct {
	Guests           int        `json:"guests"`
	Rooms            int        `json:"rooms"`
	CheckIn          *time.Time `json:"check_in,omitempty"`
	CheckOut         *time.Time `json:"check_out,omitempty"`
	MinPrice         int64      `json:"min_price,omitempty"`
	MaxPrice         int64      `json:"max_price,omitempty"`
	Types            []string   `json:"types,omitempty"`
	FreeCancellation bool       `json:"free_cancellation,omitempty"`
	NoPrepayment     bool       `json:"no_prepayment,omitempty"`
	Amenities        []string   `json:"amenities,omitempty"`
	SortBy           string     `json:"sort_by,omitempty"`
}
