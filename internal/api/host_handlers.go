package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/auth"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/entities"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
)

type HostHandler struct {
	Service *service.ReservationService
}

func NewHostHandler(svc *service.ReservationService) *HostHandler {
	return &HostHandler{Service: svc}
}

func (h *HostHandler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	code := mux.Vars(r)["code"]
	res, err := h.Service.ApproveReservation(r.Context(), code, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *HostHandler) BlockDates(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
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

	block, err := h.Service.BlockDates(r.Context(), entities.BlockRequest{
		PropertyID: req.PropertyID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Rooms:      req.Rooms,
		Reason:     req.Reason,
	}, actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *HostHandler) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	code := mux.Vars(r)["code"]
	if err := h.Service.RemoveBlock(r.Context(), code, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Block removed"})
}

func (h *HostHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	filter := entities.ListFilter{
		HostID: actor.UserID,
		Status: r.URL.Query().Get("status"),
		Date:   r.URL.Query().Get("date"),
	}
	if raw := r.URL.Query().Get("property_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			http.Error(w, "Invalid property_id", http.StatusBadRequest)
			return
		}
		filter.PropertyID = uint(id)
	}
	list, err := h.Service.ListReservations(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *HostHandler) UpdatePropertyRooms(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	propertyID, err := strconv.ParseUint(mux.Vars(r)["property_id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid property_id", http.StatusBadRequest)
		return
	}
	var req roomsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.UpdatePropertyRooms(r.Context(), uint(propertyID), req.TotalRooms, req.PricePerNight, actor); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Property updated"})
}
