package services

import (
	"context"
	stderrors "errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/vytor/chesscompare/internal/cache"
	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/errors"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/models"
)

// Opponent modes.
const (
	ModeFriend  = "friend"
	ModeGM      = "gm"
	ModeCountry = "country"
)

// OpponentService picks the player a user is compared against.
type OpponentService interface {
	// PickOpponent returns other for ModeFriend, otherwise a random GM or a
	// random compatriot of user other than user themselves.
	PickOpponent(ctx context.Context, user models.Profile, mode, other string) (string, error)
}

type opponentService struct {
	client chesscom.ClientInterface
	cache  cache.PlayerListCache

	mu  sync.Mutex
	rnd *rand.Rand
}

type OpponentOption func(*opponentService)

// WithRandSource fixes the random source, for tests.
func WithRandSource(src rand.Source) OpponentOption {
	return func(s *opponentService) { s.rnd = rand.New(src) }
}

// NewOpponentService creates a new OpponentService
func NewOpponentService(client chesscom.ClientInterface, lists cache.PlayerListCache, opts ...OpponentOption) OpponentService {
	s := &opponentService{
		client: client,
		cache:  lists,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *opponentService) PickOpponent(ctx context.Context, user models.Profile, mode, other string) (string, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{"username": user.Username, "mode": mode})

	var key string
	var fetch func(context.Context) ([]string, error)
	switch mode {
	case ModeFriend:
		other = strings.TrimSpace(other)
		if other == "" {
			return "", errors.NewValidationError("other", "a username is required to compare with a friend")
		}
		return other, nil
	case ModeGM:
		key = cache.TitledKey("GM")
		fetch = func(ctx context.Context) ([]string, error) { return s.client.FetchTitledPlayers(ctx, "GM") }
	case ModeCountry:
		if user.Country == "" {
			return "", errors.NewValidationError("country", "the player has no country on their profile")
		}
		key = cache.CountryKey(user.Country)
		fetch = func(ctx context.Context) ([]string, error) { return s.client.FetchCountryPlayers(ctx, user.Country) }
	default:
		return "", errors.NewValidationError("mode", "must be one of friend, gm, country")
	}

	list, err := s.playerList(ctx, key, fetch)
	if err != nil {
		return "", err
	}

	candidates := make([]string, 0, len(list))
	for _, name := range list {
		if !strings.EqualFold(name, user.Username) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", errors.NewNotFoundError("opponent", key)
	}

	s.mu.Lock()
	pick := candidates[s.rnd.Intn(len(candidates))]
	s.mu.Unlock()

	log.Debug("picked %s from %d candidates", pick, len(candidates))
	return pick, nil
}

func (s *opponentService) playerList(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	log := logger.FromContext(ctx).WithField("key", key)

	if s.cache != nil {
		list, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("player cache read failed, fetching: %v", err)
		} else if ok {
			return list, nil
		}
	}

	list, err := fetch(ctx)
	if stderrors.Is(err, chesscom.ErrNotFound) {
		return nil, errors.NewNotFoundError("player list", key)
	}
	if err != nil {
		log.Error("failed to fetch player list: %v", err)
		return nil, errors.NewUpstreamError("player list", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, list); err != nil {
			log.Warn("failed to cache player list: %v", err)
		}
	}
	log.Info("fetched %d players", len(list))
	return list, nil
}
