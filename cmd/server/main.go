package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/dennis6999/ChakaBnB2026-sub000/internal/api"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/auth"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/repository"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/service"
	"github.com/dennis6999/ChakaBnB2026-sub000/internal/stay"
)

func openStore() service.Store {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return repository.NewMemoryStore()
	}
	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := conn.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	return repository.NewSQLStore(conn)
}

func main() {
	godotenv.Load()

	store := openStore()
	clock := stay.RealClock{}

	svc := service.NewReservationService(store, clock)
	search := service.NewSearchService(store, svc)

	guestHandler := api.NewGuestReservationHandler(svc, search)
	hostHandler := api.NewHostHandler(svc)

	if jobStore, ok := store.(service.JobStore); ok {
		jobs := service.NewJobService(jobStore, clock)
		c := cron.New()
		if _, err := c.AddFunc("@every 15m", func() {
			jobs.SweepReservations(context.Background())
		}); err != nil {
			log.Fatalf("Failed to schedule reservation sweep: %v", err)
		}
		c.Start()
	}

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", guestHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/search", guestHandler.SearchProperties).Methods("POST")
	r.HandleFunc("/api/quote", guestHandler.GetQuote).Methods("POST")
	r.HandleFunc("/api/properties/{property_id}/reservations", guestHandler.GetPropertyCalendar).Methods("GET")

	// Guest endpoints (authenticated)
	guest := r.PathPrefix("/api").Subrouter()
	guest.Use(auth.AuthMiddleware)
	guest.HandleFunc("/reservations", guestHandler.CreateReservation).Methods("POST")
	guest.HandleFunc("/reservations", guestHandler.ListMyReservations).Methods("GET")
	guest.HandleFunc("/reservations/{code}", guestHandler.GetReservation).Methods("GET")
	guest.HandleFunc("/reservations/{code}", guestHandler.CancelReservation).Methods("DELETE")

	// Host endpoints (authenticated, host role)
	host := r.PathPrefix("/host").Subrouter()
	host.Use(auth.AuthMiddleware, auth.HostOnlyMiddleware)
	host.HandleFunc("/reservations", hostHandler.ListReservations).Methods("GET")
	host.HandleFunc("/reservations/{code}/approve", hostHandler.ApproveReservation).Methods("POST")
	host.HandleFunc("/blocks", hostHandler.BlockDates).Methods("POST")
	host.HandleFunc("/blocks/{code}", hostHandler.RemoveBlock).Methods("DELETE")
	host.HandleFunc("/properties/{property_id}/rooms", hostHandler.UpdatePropertyRooms).Methods("PUT")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(handlers.LoggingHandler(os.Stdout, r))))
}
