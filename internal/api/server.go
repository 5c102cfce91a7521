package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/services"
	"github.com/vytor/chesscompare/internal/worker"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Players     services.PlayerService
	Comparisons services.ComparisonService
	Sessions    *SessionStore
	WarmPool    *worker.Pool
	DB          Pinger
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
