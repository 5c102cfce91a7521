package chesscom_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/chesscompare/internal/chesscom"
)

func newAPI(t *testing.T) (*httptest.Server, *chesscom.Client) {
	t.Helper()
	r := chi.NewRouter()
	var srv *httptest.Server

	r.Get("/player/{username}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "username") != "aporian" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		fmt.Fprint(w, `{"username":"aporian","name":"Martin C.","country":"https://api.chess.com/pub/country/GB"}`)
	})
	r.Get("/player/{username}/stats", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chess_blitz":{"last":{"rating":1200},"record":{"win":1,"loss":2,"draw":3}},"fide":0}`)
	})
	r.Get("/player/{username}/games/archives", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"archives":["%[1]s/player/aporian/games/2024/11","%[1]s/player/aporian/games/2024/12"]}`, srv.URL)
	})
	r.Get("/player/{username}/games/{year}/{month}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "month") == "12" {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"games":[{"url":"https://www.chess.com/game/live/1","time_class":"blitz","time_control":"180","rated":true,
			"white":{"username":"aporian","rating":1500,"result":"win"},"black":{"username":"bob","rating":1400,"result":"resigned"}}]}`)
	})
	r.Get("/titled/{title}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"players":["hikaru","magnuscarlsen"]}`)
	})
	r.Get("/country/{iso}/players", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GB", chi.URLParam(r, "iso"))
		fmt.Fprint(w, `{"players":["aporian","someone"]}`)
	})
	r.Get("/puzzle", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})

	srv = httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chesscom.New(chesscom.WithBaseURL(srv.URL+"/"), chesscom.WithUserAgent("test-agent"))
}

func TestFetchProfile(t *testing.T) {
	_, client := newAPI(t)

	profile, err := client.FetchProfile(context.Background(), "aporian")
	require.NoError(t, err)
	assert.Equal(t, "Martin C.", profile.Name)
	assert.Equal(t, "https://api.chess.com/pub/country/GB", profile.Country)
}

func TestFetchProfile_NotFound(t *testing.T) {
	_, client := newAPI(t)

	profile, err := client.FetchProfile(context.Background(), "AporianGkd98")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, chesscom.ErrNotFound)
}

func TestFetchStats(t *testing.T) {
	_, client := newAPI(t)

	stats, err := client.FetchStats(context.Background(), "aporian")
	require.NoError(t, err)
	assert.Contains(t, stats, "chess_blitz")
	assert.Contains(t, stats, "fide")
}

func TestFetchArchivesAndMonthly(t *testing.T) {
	_, client := newAPI(t)
	ctx := context.Background()

	archives, err := client.FetchArchives(ctx, "aporian")
	require.NoError(t, err)
	require.Len(t, archives, 2)

	games, err := client.FetchMonthly(ctx, archives[0])
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "aporian", games[0].White.Username)
	require.NotNil(t, games[0].Rated)
	assert.True(t, *games[0].Rated)
	assert.Nil(t, games[0].Accuracies)

	_, err = client.FetchMonthly(ctx, archives[1])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFetchPlayerLists(t *testing.T) {
	_, client := newAPI(t)
	ctx := context.Background()

	gms, err := client.FetchTitledPlayers(ctx, "gm")
	require.NoError(t, err)
	assert.Equal(t, []string{"hikaru", "magnuscarlsen"}, gms)

	compatriots, err := client.FetchCountryPlayers(ctx, "gb")
	require.NoError(t, err)
	assert.Len(t, compatriots, 2)
}

func TestFetchPuzzle_Fallback(t *testing.T) {
	_, client := newAPI(t)
	assert.Equal(t, chesscom.FallbackPuzzle, client.FetchPuzzle(context.Background()))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"win", chesscom.OutcomeWin},
		{"stalemate", chesscom.OutcomeDraw},
		{"agreed", chesscom.OutcomeDraw},
		{"repetition", chesscom.OutcomeDraw},
		{"50move", chesscom.OutcomeDraw},
		{"timevsinsufficient", chesscom.OutcomeDraw},
		{"insufficient", chesscom.OutcomeDraw},
		{"checkmated", chesscom.OutcomeLoss},
		{"timeout", chesscom.OutcomeLoss},
		{"resigned", chesscom.OutcomeLoss},
		{"abandoned", chesscom.OutcomeLoss},
		{"kingofthehill", chesscom.OutcomeLoss},
		{"threecheck", chesscom.OutcomeLoss},
		{"bughousepartnerlose", chesscom.OutcomeLoss},
		{"Win", chesscom.OutcomeLoss},
		{"draw", chesscom.OutcomeLoss},
		{"", chesscom.OutcomeLoss},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, chesscom.Outcome(tt.token))
		})
	}
}

func TestArchiveMonth(t *testing.T) {
	y, m, ok := chesscom.ArchiveMonth("https://api.chess.com/pub/player/aporian/games/2008/12")
	assert.True(t, ok)
	assert.Equal(t, 2008, y)
	assert.Equal(t, 12, m)

	_, _, ok = chesscom.ArchiveMonth("https://api.chess.com/pub/player/aporian/games/latest")
	assert.False(t, ok)
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "GB", chesscom.LastSegment("https://api.chess.com/pub/country/GB"))
	assert.Equal(t, "Sicilian-Defense", chesscom.LastSegment("https://www.chess.com/openings/Sicilian-Defense/"))
	assert.Equal(t, "B20", chesscom.LastSegment("B20"))
}
