// Package stats aggregates finished sessions and renders reports.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/model"
)

const sparkChars = " .:-=+*#%@"

// WinRate returns wins/gamesPlayed in [0, 1].
func WinRate(agg model.AggregateStats) float64 {
	if agg.GamesPlayed <= 0 {
		return 0
	}
	return float64(agg.Wins) / float64(agg.GamesPlayed)
}

// AverageScore returns the mean score per game.
func AverageScore(agg model.AggregateStats) float64 {
	if agg.GamesPlayed <= 0 {
		return 0
	}
	return float64(agg.TotalScore) / float64(agg.GamesPlayed)
}

// DifficultyBreakdown summarizes outcomes for one difficulty.
type DifficultyBreakdown struct {
	Difficulty  string
	Games       int
	Wins        int
	BestScore   int
	AvgAttempts float64
}

// ByDifficulty groups outcomes per difficulty, ordered by preset rank and
// then by name for labels that no longer match a preset.
func ByDifficulty(outcomes []model.SessionOutcome) []DifficultyBreakdown {
	type acc struct {
		DifficultyBreakdown
		winAttempts int
	}
	groups := map[string]*acc{}
	for _, o := range outcomes {
		g, ok := groups[o.Difficulty]
		if !ok {
			g = &acc{DifficultyBreakdown: DifficultyBreakdown{Difficulty: o.Difficulty}}
			groups[o.Difficulty] = g
		}
		g.Games++
		if o.Won {
			g.Wins++
			g.winAttempts += o.Attempts
			if o.Score > g.BestScore {
				g.BestScore = o.Score
			}
		}
	}

	out := make([]DifficultyBreakdown, 0, len(groups))
	for _, g := range groups {
		if g.Wins > 0 {
			g.AvgAttempts = float64(g.winAttempts) / float64(g.Wins)
		}
		out = append(out, g.DifficultyBreakdown)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := difficultyRank(out[i].Difficulty), difficultyRank(out[j].Difficulty)
		if ri == rj {
			return out[i].Difficulty < out[j].Difficulty
		}
		return ri < rj
	})
	return out
}

func difficultyRank(label string) int {
	for i, cfg := range game.Difficulties() {
		if strings.EqualFold(cfg.Label, label) {
			return i
		}
	}
	return math.MaxInt
}

// Scores extracts the score series in history order.
func Scores(outcomes []model.SessionOutcome) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		out[i] = float64(o.Score)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// ScoreTrend smooths scores and keeps at most width trailing points.
func ScoreTrend(outcomes []model.SessionOutcome, window, width int) string {
	values := MovingAverage(Scores(outcomes), window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	return Sparkline(values)
}
