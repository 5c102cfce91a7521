package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/chesscompare/internal/errors"
)

// RequestTimeout bounds every /api request, including archive fetches for a cold table.
const RequestTimeout = 2 * time.Minute

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(RequestTimeout))

		r.Get("/puzzle", s.handlePuzzle)
		r.Get("/compare/{username}", s.handleCompare)

		r.Route("/players/{username}", func(r chi.Router) {
			r.Get("/", s.handlePlayer)
			r.Get("/ratings", s.handleRatings)
			r.Get("/games", s.handleGames)
			r.Get("/accuracy", s.handleAccuracy)
			r.Get("/query", s.handleQuery)
			r.Get("/top", s.handleTop)
			r.Get("/history", s.handleHistory)
			r.Post("/warm", s.handleWarm)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
