package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	httperr "github.com/dennis6999/ChakaBnB2026-sub000/internal/errors"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

const dateLayout = "2006-01-02"

// parseDate reads a calendar day in YYYY-MM-DD form. Stay boundaries are
// whole days; time-of-day never enters the API.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

type stayRequest struct {
	PropertyID uint   `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Rooms      int    `json:"rooms"`
	Guests     int    `json:"guests"`
	Note       string `json:"note,omitempty"`
}

type blockRequest struct {
	PropertyID uint   `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Rooms      int    `json:"rooms,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

type roomsUpdateRequest struct {
	TotalRooms    int   `json:"total_rooms"`
	PricePerNight int64 `json:"price_per_night"`
}

type searchRequest struct {
	Guests           int      `json:"guests"`
	Rooms            int      `json:"rooms"`
	CheckIn          string   `json:"check_in,omitempty"`
	CheckOut         string   `json:"check_out,omitempty"`
	MinPrice         int64    `json:"min_price,omitempty"`
	MaxPrice         int64    `json:"max_price,omitempty"`
	Types            []string `json:"types,omitempty"`
	FreeCancellation bool     `json:"free_cancellation,omitempty"`
	NoPrepayment     bool     `json:"no_prepayment,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	SortBy           string   `json:"sort_by,omitempty"`
}

type errorResponse struct {
	Error          string `json:"error"`
	RoomsAvailable *int   `json:"rooms_available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Println("error encoding response:", err)
	}
}

// toHTTPError maps engine errors onto HTTP statuses.
func toHTTPError(err error) *httperr.HTTPError {
	switch {
	case errors.Is(err, service.ErrPropertyNotFound),
		errors.Is(err, service.ErrReservationNotFound):
		return httperr.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return httperr.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyFinal),
		errors.Is(err, service.ErrExpired):
		return httperr.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, stay.ErrInvalidRange),
		errors.Is(err, stay.ErrPastCheckIn):
		return httperr.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return httperr.NewHTTPError(http.StatusInternalServerError, "internal error")
}

// writeError serializes an engine error. Capacity rejections carry the
// free-room count so the storefront can offer a correction.
func writeError(w http.ResponseWriter, err error) {
	if capacityErr := service.IsOutOfCapacity(err); capacityErr != nil {
		available := capacityErr.Available
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:          capacityErr.Error(),
			RoomsAvailable: &available,
		})
		return
	}

	httpErr := toHTTPError(err)
	if httpErr.Code == http.StatusInternalServerError {
		log.Println("internal error:", err)
	}
	writeJSON(w, httpErr.Code, errorResponse{Error: httpErr.Message})
}
