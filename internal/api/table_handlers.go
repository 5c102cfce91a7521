package api

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/table"
	"github.com/vytor/chesscompare/internal/worker"
)

// factAll joins every fact over the same dimensions.
const factAll = "all"

func (s *Server) playerTable(w http.ResponseWriter, r *http.Request) (*table.Table, bool) {
	tbl, err := s.Sessions.Table(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleError(w, r, err)
		return nil, false
	}
	return tbl, true
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.playerTable(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"username": tbl.Username(),
		"count":    tbl.Len(),
		"games":    tbl.Records(),
	})
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	tbl, ok := s.playerTable(w, r)
	if !ok {
		return
	}
	summary, ok := tbl.AccuracyStats()
	if !ok {
		writeJSON(w, r, http.StatusOK, map[string]any{"available": false})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"available": true,
		"avg":       summary.Avg,
		"max":       summary.Max,
		"min":       summary.Min,
		"games":     summary.Games,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rated, err := boolParam(q.Get("rated"), "rated", false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	asc, err := boolParam(q.Get("asc"), "asc", false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, err := intParam(q.Get("limit"), "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var dims []table.Dimension
	for _, d := range strings.Split(q.Get("dims"), ",") {
		if d = strings.TrimSpace(d); d != "" {
			dims = append(dims, table.Dimension(d))
		}
	}

	tbl, ok := s.playerTable(w, r)
	if !ok {
		return
	}

	var frame *table.Frame
	if fact := q.Get("fact"); fact == factAll {
		frame, err = tbl.Everything(dims, rated)
	} else {
		frame, err = tbl.Query(table.Fact(fact), dims, rated)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	if col := q.Get("sort"); col != "" {
		if err := frame.SortBy(col, asc); err != nil {
			handleError(w, r, err)
			return
		}
	}
	if limit > 0 {
		frame.Head(limit)
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"fact":       frame.Fact,
		"dimensions": frame.Dimensions,
		"columns":    frame.Columns,
		"rows":       frame.Records(),
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	n, err := intParam(q.Get("n"), "n", table.DefaultTopN)
	if err != nil {
		handleError(w, r, err)
		return
	}
	asc, err := boolParam(q.Get("asc"), "asc", false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	rated, err := boolParam(q.Get("rated"), "rated", true)
	if err != nil {
		handleError(w, r, err)
		return
	}

	tbl, ok := s.playerTable(w, r)
	if !ok {
		return
	}

	games, err := tbl.TopN(q.Get("column"), n, asc, rated)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"column": q.Get("column"), "games": games})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	timeClass := r.URL.Query().Get("time_class")
	if timeClass == "" {
		handleError(w, r, errors.NewValidationError("time_class", "cannot be empty"))
		return
	}

	tbl, ok := s.playerTable(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"time_class": timeClass,
		"points":     tbl.RatingHistory(timeClass),
	})
}

// handleWarm queues a background build of the player's table.
func (s *Server) handleWarm(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	log := logger.FromContext(r.Context()).WithField("username", username)

	if s.Sessions.Cached(username) {
		writeJSON(w, r, http.StatusOK, map[string]any{"username": username, "status": "ready"})
		return
	}

	job := &worker.WarmTableJob{
		Warmer:   s.Sessions,
		Username: username,
	}
	if err := s.WarmPool.Submit(job); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			handleError(w, r, errors.NewUnavailableError(err.Error()))
			return
		}
		handleError(w, r, err)
		return
	}

	log.Debug("queued table warm-up, %d jobs waiting", s.WarmPool.QueueSize())
	writeJSON(w, r, http.StatusAccepted, map[string]any{"username": username, "status": "queued"})
}

func boolParam(raw, name string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.NewValidationError(name, "must be a boolean")
	}
	return v, nil
}

func intParam(raw, name string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
