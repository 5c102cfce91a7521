package chesscom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/chesscompare/internal/logger"
)

const (
	DefaultBaseURL   = "https://api.chess.com/pub"
	DefaultUserAgent = "chess-comparator"
)

// ErrNotFound is returned when the API answers 404, which is how it reports an
// unknown username or an empty country/title list.
var ErrNotFound = errors.New("chess.com resource not found")

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	log        *logger.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(base, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		log:        logger.Default().WithPrefix("chesscom"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type archivesResp struct {
	Archives []string `json:"archives"`
}

type playersResp struct {
	Players []string `json:"players"`
}

// FetchProfile returns ErrNotFound for usernames chess.com does not know.
func (c *Client) FetchProfile(ctx context.Context, username string) (*Profile, error) {
	var out Profile
	if err := c.getJSON(ctx, c.endpoint("player", username), &out, "username", username); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchStats returns the raw stats bundle keyed by metric.
func (c *Client) FetchStats(ctx context.Context, username string) (Stats, error) {
	out := Stats{}
	if err := c.getJSON(ctx, c.endpoint("player", username, "stats"), &out, "username", username); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchArchives lists the monthly archive URLs for username, oldest first.
func (c *Client) FetchArchives(ctx context.Context, username string) ([]string, error) {
	var out archivesResp
	if err := c.getJSON(ctx, c.endpoint("player", username, "games", "archives"), &out, "username", username); err != nil {
		return nil, err
	}
	c.logger(ctx).WithField("username", username).Info("fetched %d archives", len(out.Archives))
	return out.Archives, nil
}

// FetchMonthly fetches one month of games. archiveURL is one of the values
// returned by FetchArchives.
func (c *Client) FetchMonthly(ctx context.Context, archiveURL string) ([]MonthlyGame, error) {
	var payload struct {
		Games []MonthlyGame `json:"games"`
	}
	if err := c.getJSON(ctx, archiveURL, &payload, "archive_url", archiveURL); err != nil {
		return nil, err
	}
	c.logger(ctx).WithField("archive_url", archiveURL).Info("fetched %d games from archive", len(payload.Games))
	return payload.Games, nil
}

// FetchTitledPlayers lists the usernames holding title (e.g. "GM").
func (c *Client) FetchTitledPlayers(ctx context.Context, title string) ([]string, error) {
	var out playersResp
	if err := c.getJSON(ctx, c.endpoint("titled", strings.ToUpper(title)), &out, "title", title); err != nil {
		return nil, err
	}
	return out.Players, nil
}

// FetchCountryPlayers lists the usernames registered in the country with ISO code iso.
func (c *Client) FetchCountryPlayers(ctx context.Context, iso string) ([]string, error) {
	var out playersResp
	if err := c.getJSON(ctx, c.endpoint("country", strings.ToUpper(iso), "players"), &out, "country", iso); err != nil {
		return nil, err
	}
	return out.Players, nil
}

// FetchPuzzle returns today's puzzle, or FallbackPuzzle when the API cannot serve one.
func (c *Client) FetchPuzzle(ctx context.Context) Puzzle {
	var out Puzzle
	if err := c.getJSON(ctx, c.endpoint("puzzle"), &out); err != nil || out.URL == "" || out.Image == "" {
		c.logger(ctx).Warn("using fallback puzzle: %v", err)
		return FallbackPuzzle
	}
	return out
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) logger(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithPrefix("chesscom")
}

func (c *Client) getJSON(ctx context.Context, target string, out any, fields ...any) error {
	log := c.logger(ctx).WithField("url", target)
	for i := 0; i+1 < len(fields); i += 2 {
		log = log.WithField(fmt.Sprint(fields[i]), fields[i+1])
	}

	log.Debug("requesting")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		log.Debug("resource not found")
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return fmt.Errorf("chess.com status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return err
	}
	return nil
}
