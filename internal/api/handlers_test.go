package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/auth"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/db"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/repository"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

const (
	testSecret     = "testsecret"
	testHostID     = 10
	testGuestID    = 77
	testPropertyID = 1
)

// buildTestRouter mounts the same route tree as the server binary over
// an in-memory store with one seeded property.
func buildTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	os.Setenv("JWT_SECRET", testSecret)

	store := repository.NewMemoryStore()
	store.SeedProperty(db.Property{
		ID: testPropertyID, HostID: testHostID, Title: "Seaside Loft", Type: "apartment",
		TotalRooms: 2, MaxGuestsPerRoom: 2, PricePerNight: 5000, Currency: "USD",
		InstantBook: true,
	})

	svc := service.NewReservationService(store, stay.RealClock{})
	search := service.NewSearchService(store, svc)
	guestHandler := NewGuestReservationHandler(svc, search)
	hostHandler := NewHostHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/availability", guestHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/search", guestHandler.SearchProperties).Methods("POST")
	r.HandleFunc("/api/quote", guestHandler.GetQuote).Methods("POST")

	guest := r.PathPrefix("/api").Subrouter()
	guest.Use(auth.AuthMiddleware)
	guest.HandleFunc("/reservations", guestHandler.CreateReservation).Methods("POST")
	guest.HandleFunc("/reservations/{code}", guestHandler.GetReservation).Methods("GET")
	guest.HandleFunc("/reservations/{code}", guestHandler.CancelReservation).Methods("DELETE")

	host := r.PathPrefix("/host").Subrouter()
	host.Use(auth.AuthMiddleware, auth.HostOnlyMiddleware)
	host.HandleFunc("/blocks", hostHandler.BlockDates).Methods("POST")
	return r
}

func signTestToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(r *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func stayBody(rooms int) map[string]interface{} {
	checkIn := time.Now().AddDate(0, 1, 0)
	return map[string]interface{}{
		"property_id": testPropertyID,
		"check_in":    checkIn.Format("2006-01-02"),
		"check_out":   checkIn.AddDate(0, 0, 3).Format("2006-01-02"),
		"rooms":       rooms,
		"guests":      rooms,
	}
}

func TestReservationEndpointsRequireToken(t *testing.T) {
	r := buildTestRouter(t)

	resp := doJSON(r, http.MethodPost, "/api/reservations", "", stayBody(1))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(r, http.MethodPost, "/host/blocks", signTestToken(t, testGuestID, service.RoleGuest), stayBody(1))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := buildTestRouter(t)
	guestToken := signTestToken(t, testGuestID, service.RoleGuest)

	resp := doJSON(r, http.MethodPost, "/api/availability", "", stayBody(2))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(r, http.MethodPost, "/api/reservations", guestToken, stayBody(2))
	require.Equal(t, http.StatusCreated, resp.Code)

	var created db.Reservation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, db.StatusConfirmed, created.Status)
	assert.NotEmpty(t, created.Code)

	resp = doJSON(r, http.MethodGet, fmt.Sprintf("/api/reservations/%s", created.Code), guestToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	// A stranger cannot read someone else's booking.
	otherToken := signTestToken(t, 999, service.RoleGuest)
	resp = doJSON(r, http.MethodGet, fmt.Sprintf("/api/reservations/%s", created.Code), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/reservations/%s", created.Code), guestToken, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestOverbookedRequestReturnsConflictWithAvailability(t *testing.T) {
	r := buildTestRouter(t)
	guestToken := signTestToken(t, testGuestID, service.RoleGuest)

	resp := doJSON(r, http.MethodPost, "/api/reservations", guestToken, stayBody(2))
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(r, http.MethodPost, "/api/reservations", guestToken, stayBody(1))
	require.Equal(t, http.StatusConflict, resp.Code)

	var body struct {
		Error          string `json:"error"`
		RoomsAvailable *int   `json:"rooms_available"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotNil(t, body.RoomsAvailable)
	assert.Equal(t, 0, *body.RoomsAvailable)
}

func TestQuoteEndpoint(t *testing.T) {
	r := buildTestRouter(t)

	resp := doJSON(r, http.MethodPost, "/api/quote", "", stayBody(2))
	require.Equal(t, http.StatusOK, resp.Code)

	var quote struct {
		Nights     int   `json:"nights"`
		TotalPrice int64 `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &quote))
	assert.Equal(t, 3, quote.Nights)
	// 3 nights x 5000 x 2 rooms + 500 x 2 fee.
	assert.Equal(t, int64(31000), quote.TotalPrice)
}
