// Package pgn reads the few things the game table needs out of a PGN string.
package pgn

import (
	"regexp"
	"strings"
	"time"

	"github.com/corentings/chess/v2"
)

var headerRe = regexp.MustCompile(`\[(\w+)\s+"([^"]+)"\]`)

// Headers extracts PGN tag pairs into a map.
func Headers(pgn string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(pgn, "\n") {
		if !strings.HasPrefix(line, "[") {
			continue
		}
		m := headerRe.FindStringSubmatch(line)
		if len(m) == 3 {
			out[m[1]] = m[2]
		}
	}
	return out
}

const headerTimeLayout = "2006.01.02 15:04:05"

// EndTime returns the game's end as Unix seconds from the EndDate/EndTime
// headers, falling back to UTCDate/UTCTime. Times are read as UTC and any
// zone suffix is dropped. Missing or unparseable headers yield 0.
func EndTime(pgn string) int64 {
	h := Headers(pgn)
	for _, pair := range [][2]string{{"EndDate", "EndTime"}, {"UTCDate", "UTCTime"}} {
		date, clock := h[pair[0]], h[pair[1]]
		if date == "" || clock == "" {
			continue
		}
		clock, _, _ = strings.Cut(clock, " ")
		t, err := time.ParseInLocation(headerTimeLayout, date+" "+clock, time.UTC)
		if err != nil {
			continue
		}
		return t.Unix()
	}
	return 0
}

// MoveCount returns the number of full moves in pgn, counting a trailing
// white move as a full move. Empty or unparseable input yields 0.
func MoveCount(pgn string) int {
	if strings.TrimSpace(pgn) == "" {
		return 0
	}
	pgnOpt, err := chess.PGN(strings.NewReader(pgn))
	if err != nil {
		return 0
	}
	plies := len(chess.NewGame(pgnOpt).Moves())
	return (plies + 1) / 2
}
