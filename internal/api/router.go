package api

import (
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/FawkesguyD/Love/internal/api/recovery"
	"github.com/FawkesguyD/Love/internal/services"
	"github.com/FawkesguyD/Love/internal/store"
)

// NewRouter wires the moments service HTTP routes.
func NewRouter(st store.Store, photostockBaseURL string, requestTimeout time.Duration, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recovery.Middleware)

	svc := services.NewCardService(st)

	cards := NewCardHandler(svc, log)
	view := NewViewHandler(svc, log)
	media := NewMediaHandler(photostockBaseURL, requestTimeout, log)
	health := NewHealthHandler(st, log)

	router.HandleFunc("/health", health.CheckHealth).Methods("GET")

	router.HandleFunc("/api/v1/cards", cards.CreateCard).Methods("POST")
	router.HandleFunc("/api/v1/cards", cards.ListCards).Methods("GET")
	router.HandleFunc("/api/v1/cards/{id}", cards.GetCard).Methods("GET")
	router.HandleFunc("/api/v1/cards/{id}", cards.UpdateCard).Methods("PATCH")
	router.HandleFunc("/api/v1/cards/{id}", cards.DeleteCard).Methods("DELETE")

	// Standalone card page plus the same-origin image proxy it relies on.
	router.HandleFunc("/cards/view", view.ViewCard).Methods("GET")
	router.HandleFunc("/cards/view/{id}", view.ViewCardByID).Methods("GET")
	router.HandleFunc("/api/images/{filename}", media.ProxyImage).Methods("GET")
	router.HandleFunc("/media/{filename}", media.ProxyImage).Methods("GET")

	return router
}
