package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/auth"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

type GuestReservationHandler struct {
	Service *service.ReservationService
	Search  *service.SearchService
}

func NewGuestReservationHandler(svc *service.ReservationService, search *service.SearchService) *GuestReservationHandler {
	return &GuestReservationHandler{Service: svc, Search: search}
}

func (h *GuestReservationHandler) decodeStayRequest(w http.ResponseWriter, r *http.Request) (entities.ReservationRequest, bool) {
	var req stayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return entities.ReservationRequest{}, false
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		http.Error(w, "Invalid check_in date, expected YYYY-MM-DD", http.StatusBadRequest)
		return entities.ReservationRequest{}, false
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		http.Error(w, "Invalid check_out date, expected YYYY-MM-DD", http.StatusBadRequest)
		return entities.ReservationRequest{}, false
	}
	return entities.ReservationRequest{
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Rooms:      req.Rooms,
		Guests:     req.Guests,
		Note:       req.Note,
	}, true
}

func (h *GuestReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStayRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.CheckAvailability(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GuestReservationHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeStayRequest(w, r)
	if !ok {
		return
	}
	window, err := stay.NewRange(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, err)
		return
	}
	rooms := req.Rooms
	if rooms < 1 {
		rooms = 1
	}
	quote, err := h.Service.Quote(r.Context(), req.PropertyID, window, rooms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *GuestReservationHandler) SearchProperties(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	criteria := entities.SearchCriteria{
		Guests:           req.Guests,
		Rooms:            req.Rooms,
		MinPrice:         req.MinPrice,
		MaxPrice:         req.MaxPrice,
		Types:            req.Types,
		FreeCancellation: req.FreeCancellation,
		NoPrepayment:     req.NoPrepayment,
		Amenities:        req.Amenities,
		SortBy:           req.SortBy,
	}
	if req.CheckIn != "" && req.CheckOut != "" {
		checkIn, err := parseDate(req.CheckIn)
		if err != nil {
			http.Error(w, "Invalid check_in date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		checkOut, err := parseDate(req.CheckOut)
		if err != nil {
			http.Error(w, "Invalid check_out date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		criteria.CheckIn = &checkIn
		criteria.CheckOut = &checkOut
	}

	results, err := h.Search.Search(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":      len(results),
		"properties": results,
	})
}

// GetPropertyCalendar serves the occupied ranges for a property so the
// storefront calendar can grey out full days. Defaults to the six months
// from today when no window is given.
func (h *GuestReservationHandler) GetPropertyCalendar(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseUint(mux.Vars(r)["property_id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid property_id", http.StatusBadRequest)
		return
	}

	from := time.Now().UTC()
	to := from.AddDate(0, 6, 0)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = parseDate(raw); err != nil {
			http.Error(w, "Invalid from date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = parseDate(raw); err != nil {
			http.Error(w, "Invalid to date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	window, err := stay.NewRange(from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	calendar, err := h.Service.Calendar(r.Context(), uint(propertyID), window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, calendar)
}

func (h *GuestReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	req, decoded := h.decodeStayRequest(w, r)
	if !decoded {
		return
	}
	res, err := h.Service.CreateReservation(r.Context(), req, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *GuestReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	code := mux.Vars(r)["code"]
	res, err := h.Service.GetReservation(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	if actor.Role == service.RoleGuest && res.GuestID != actor.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *GuestReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	code := mux.Vars(r)["code"]
	res, err := h.Service.CancelReservation(r.Context(), code, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *GuestReservationHandler) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	filter := entities.ListFilter{
		GuestID: actor.UserID,
		Status:  r.URL.Query().Get("status"),
		Date:    r.URL.Query().Get("date"),
	}
	list, err := h.Service.ListReservations(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
