package stats

import (
	"context"
	"strings"

	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Outcomes  []model.SessionOutcome
	Breakdown []DifficultyBreakdown
	Totals    model.AggregateStats
}

// BuildReport loads archived outcomes matching the filter and derives
// per-difficulty and overall aggregates from them.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	outcomes, err := st.ListOutcomes(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return ReportFromOutcomes(outcomes), nil
}

// ReportFromOutcomes derives a report from an in-memory history, used when
// the archive is unavailable.
func ReportFromOutcomes(outcomes []model.SessionOutcome) Report {
	var totals model.AggregateStats
	for _, o := range outcomes {
		totals = UpdateStats(totals, o)
	}
	return Report{
		Outcomes:  outcomes,
		Breakdown: ByDifficulty(outcomes),
		Totals:    totals,
	}
}

// FilterOutcomes applies a history filter to in-memory outcomes.
func FilterOutcomes(outcomes []model.SessionOutcome, filter model.HistoryFilter) []model.SessionOutcome {
	out := make([]model.SessionOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if filter.Difficulty != "" && !strings.EqualFold(o.Difficulty, filter.Difficulty) {
			continue
		}
		if filter.Player != "" && !strings.EqualFold(o.PlayerName, filter.Player) {
			continue
		}
		if filter.Since != nil && o.Timestamp.Before(*filter.Since) {
			continue
		}
		out = append(out, o)
	}
	if filter.Last > 0 && len(out) > filter.Last {
		out = out[len(out)-filter.Last:]
	}
	return out
}
