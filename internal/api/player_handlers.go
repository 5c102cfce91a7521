package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
)

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	player, err := s.Players.GetPlayer(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if player == nil {
		handleError(w, r, errors.NewUnknownPlayerError(username))
		return
	}
	writeJSON(w, r, http.StatusOK, player)
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	rows, err := s.Players.GetRatings(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"username": username, "ratings": rows})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	mode := r.URL.Query().Get("mode")
	other := r.URL.Query().Get("other")
	logger.FromContext(r.Context()).Debug("comparing %s in mode %q", username, mode)

	cmp, err := s.Comparisons.Compare(r.Context(), username, mode, other)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cmp)
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Players.GetPuzzle(r.Context()))
}
