package chesscom

import (
	"strconv"
	"strings"
)

const (
	OutcomeWin  = "win"
	OutcomeDraw = "draw"
	OutcomeLoss = "loss"
)

// drawTokens is the closed set of per-side result codes that mean a draw.
// See https://www.chess.com/news/view/published-data-api#game-results.
var drawTokens = map[string]struct{}{
	"stalemate":          {},
	"agreed":             {},
	"repetition":         {},
	"50move":             {},
	"timevsinsufficient": {},
	"insufficient":       {},
}

// Outcome classifies one side's result code. Anything that is neither "win"
// nor a draw code is a loss, including codes chess.com adds later.
func Outcome(token string) string {
	if token == "win" {
		return OutcomeWin
	}
	if _, ok := drawTokens[token]; ok {
		return OutcomeDraw
	}
	return OutcomeLoss
}

// IsDrawToken reports whether token is one of the draw result codes.
func IsDrawToken(token string) bool {
	_, ok := drawTokens[token]
	return ok
}

// LastSegment returns the final path segment of a URL-shaped string.
func LastSegment(s string) string {
	s = strings.TrimSuffix(s, "/")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

// ArchiveMonth parses the trailing YYYY/MM of a monthly archive URL.
func ArchiveMonth(archiveURL string) (year, month int, ok bool) {
	parts := strings.Split(strings.TrimSuffix(archiveURL, "/"), "/")
	if len(parts) < 2 {
		return 0, 0, false
	}
	y, err1 := strconv.Atoi(parts[len(parts)-2])
	m, err2 := strconv.Atoi(parts[len(parts)-1])
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}
