package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/journal"
	"github.com/starford/raido/internal/storage"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// gateway may be nil when the weather integration is not configured.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(repo *journal.Repository, files storage.Provider, mediaRoot string,
	gateway WeatherFetcher, authEnabled bool, token string, sseHandler http.Handler) chi.Router {

	h := NewHandler(repo)
	mh := NewMediaHandler(repo, files, mediaRoot)
	wh := NewWeatherHandler(gateway)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Hikes CRUD + search.
	r.Get("/hikes", h.ListHikes)
	r.Post("/hikes", h.CreateHike)
	r.Delete("/hikes", h.ResetJournal)
	r.Get("/hikes/{id}", h.GetHike)
	r.Put("/hikes/{id}", h.UpdateHike)
	r.Delete("/hikes/{id}", h.DeleteHike)

	// Observations.
	r.Get("/hikes/{id}/observations", h.ListObservations)
	r.Post("/hikes/{id}/observations", h.CreateObservation)
	r.Delete("/hikes/{id}/observations", h.DeleteObservations)
	r.Put("/observations/{id}", h.UpdateObservation)
	r.Delete("/observations/{id}", h.DeleteObservation)
	r.Get("/search/observations", h.SearchObservations)

	// Media.
	r.Get("/hikes/{id}/media", mh.List)
	r.Post("/hikes/{id}/media", mh.Upload)
	r.Delete("/media/{id}", mh.Delete)
	r.Get("/media/files/{filename}", mh.ServeFile)

	// Weather.
	r.Get("/weather", wh.Current)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
