// Package compare lines up two players' stats metric by metric.
package compare

import (
	"sort"

	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/stats"
)

// Side is one participant of a comparison.
type Side struct {
	Username string
	Stats    []models.MetricStats
}

type builder struct {
	rows []models.ComparisonRow
}

func (b *builder) add(metric string, user, other int) {
	b.rows = append(b.rows, models.ComparisonRow{Metric: metric, User: user, Other: other})
}

// Build compares the metrics both players have, in metric order, then
// appends overall game totals and the mean current rating.
func Build(user, other Side) models.Comparison {
	u, o := stats.Index(user.Stats), stats.Index(other.Stats)

	var common []string
	for name, um := range u {
		if om, ok := o[name]; ok && om.Kind == um.Kind {
			common = append(common, name)
		}
	}
	sort.Strings(common)

	b := &builder{}
	var uTotals, oTotals totals
	var uCurrent, oCurrent []int

	for _, name := range common {
		um, om := u[name], o[name]
		switch {
		case name == stats.MetricFIDE:
			b.add("FIDE", um.Value, om.Value)
		case name == stats.MetricPuzzleRush:
			b.add(name, um.BestScore, om.BestScore)
		case name == stats.MetricTactics:
			b.add("puzzles", um.Value, om.Value)
		case um.Kind == models.KindRatingRecord:
			b.add(name+"_current", um.Current, om.Current)
			b.add(name+"_wins", um.Wins, om.Wins)
			b.add(name+"_draws", um.Draws, om.Draws)
			b.add(name+"_losses", um.Losses, om.Losses)
			b.add(name+"_total_games", um.TotalGames(), om.TotalGames())
			b.add(name+"_win_%", percent(um.Wins, um.TotalGames()), percent(om.Wins, om.TotalGames()))
			b.add(name+"_draw_%", percent(um.Draws, um.TotalGames()), percent(om.Draws, om.TotalGames()))
			b.add(name+"_loss_%", percent(um.Losses, um.TotalGames()), percent(om.Losses, om.TotalGames()))
			if um.Best != nil && om.Best != nil {
				b.add(name+"_best", *um.Best, *om.Best)
			}
			uTotals.add(um)
			oTotals.add(om)
			uCurrent = append(uCurrent, um.Current)
			oCurrent = append(oCurrent, om.Current)
		}
	}

	b.add("total_wins", uTotals.wins, oTotals.wins)
	b.add("total_draws", uTotals.draws, oTotals.draws)
	b.add("total_losses", uTotals.losses, oTotals.losses)
	b.add("total_games", uTotals.games(), oTotals.games())
	b.add("overall_win_%", percent(uTotals.wins, uTotals.games()), percent(oTotals.wins, oTotals.games()))
	b.add("overall_loss_%", percent(uTotals.losses, uTotals.games()), percent(oTotals.losses, oTotals.games()))
	if len(uCurrent) > 0 {
		b.add("avg_rating_current", mean(uCurrent), mean(oCurrent))
	}

	return models.Comparison{User: user.Username, Other: other.Username, Rows: b.rows}
}

type totals struct {
	wins, draws, losses int
}

func (t *totals) add(m models.MetricStats) {
	t.wins += m.Wins
	t.draws += m.Draws
	t.losses += m.Losses
}

func (t totals) games() int { return t.wins + t.draws + t.losses }

// percent truncates toward zero; an empty record is 0%.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(float64(part) / float64(whole) * 100)
}

func mean(vs []int) int {
	sum := 0
	for _, v := range vs {
		sum += v
	}
	return int(float64(sum) / float64(len(vs)))
}
