package api

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/services"
	"github.com/vytor/chesscompare/internal/table"
	"github.com/vytor/chesscompare/internal/worker"
)

var _ worker.TableWarmer = (*SessionStore)(nil)

// SessionStore keeps each player's built table for a limited time so the
// archives are fetched once per session. Concurrent requests for the same
// player share one build.
type SessionStore struct {
	players services.PlayerService
	history services.HistoryService
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*session
}

type session struct {
	ready   chan struct{}
	tbl     *table.Table
	err     error
	builtAt time.Time
}

type SessionOption func(*SessionStore)

// WithSessionClock replaces time.Now, for tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		s.now = now
	}
}

func NewSessionStore(players services.PlayerService, history services.HistoryService, ttl time.Duration, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		players: players,
		history: history,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the cached table for username, building it when absent or
// expired. Unknown players yield a NOT_FOUND error and are not cached.
func (s *SessionStore) Table(ctx context.Context, username string) (*table.Table, error) {
	key := strings.ToLower(username)

	for {
		s.mu.Lock()
		s.sweepLocked()
		e, ok := s.entries[key]
		if !ok {
			break
		}
		s.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		// The builder's request went away; build again under ours.
		if isContextErr(e.err) && ctx.Err() == nil {
			continue
		}
		return e.tbl, e.err
	}
	e := &session{ready: make(chan struct{})}
	s.entries[key] = e
	s.mu.Unlock()

	tbl, err := s.build(ctx, username)

	s.mu.Lock()
	e.tbl, e.err, e.builtAt = tbl, err, s.now()
	if err != nil {
		delete(s.entries, key)
	}
	close(e.ready)
	s.mu.Unlock()

	return tbl, err
}

func (s *SessionStore) build(ctx context.Context, username string) (*table.Table, error) {
	log := logger.FromContext(ctx).WithPrefix("sessions").WithField("username", username)

	player, err := s.players.GetPlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, errors.NewUnknownPlayerError(username)
	}

	tbl, err := s.history.BuildTable(ctx, username)
	if err != nil {
		log.Error("failed to build table: %v", err)
		return nil, err
	}
	log.Debug("cached table with %d games", tbl.Len())
	return tbl, nil
}

// Cached reports whether a fresh table for username is ready.
func (s *SessionStore) Cached(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[strings.ToLower(username)]
	if !ok {
		return false
	}
	select {
	case <-e.ready:
		return e.err == nil && !s.expiredLocked(e)
	default:
		return false
	}
}

// Evict drops username's table so the next request rebuilds it.
func (s *SessionStore) Evict(username string) {
	s.mu.Lock()
	delete(s.entries, strings.ToLower(username))
	s.mu.Unlock()
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *SessionStore) sweepLocked() {
	for key, e := range s.entries {
		select {
		case <-e.ready:
			if s.expiredLocked(e) {
				delete(s.entries, key)
			}
		default:
		}
	}
}

func (s *SessionStore) expiredLocked(e *session) bool {
	return s.ttl > 0 && s.now().Sub(e.builtAt) >= s.ttl
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
