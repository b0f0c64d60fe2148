package stats

import (
	"sort"

	"github.com/verte-zerg/tuiguess/internal/model"
)

// MaxHighScores is the leaderboard length.
const MaxHighScores = 20

// RecordOutcome folds a finished session into the aggregate stats and the
// leaderboard. Neither argument is modified.
func RecordOutcome(outcome model.SessionOutcome, agg model.AggregateStats, board []model.HighScoreEntry) (model.AggregateStats, []model.HighScoreEntry) {
	return UpdateStats(agg, outcome), UpdateLeaderboard(board, outcome)
}

// UpdateStats returns agg with the outcome applied.
func UpdateStats(agg model.AggregateStats, outcome model.SessionOutcome) model.AggregateStats {
	next := model.AggregateStats{
		GamesPlayed: agg.GamesPlayed + 1,
		Wins:        agg.Wins,
		TotalScore:  agg.TotalScore + outcome.Score,
	}
	if agg.BestScore != nil {
		best := *agg.BestScore
		next.BestScore = &best
	}
	if outcome.Won {
		next.Wins++
		if next.BestScore == nil || outcome.Attempts < *next.BestScore {
			best := outcome.Attempts
			next.BestScore = &best
		}
	}
	return next
}

// UpdateLeaderboard returns a new leaderboard including the outcome if it was a win.
// Entries are ordered by score descending; equal scores keep insertion order.
// The result is normalized even for a loss, so an unsorted or oversized board
// read from disk comes back within bounds.
func UpdateLeaderboard(board []model.HighScoreEntry, outcome model.SessionOutcome) []model.HighScoreEntry {
	next := make([]model.HighScoreEntry, len(board), len(board)+1)
	copy(next, board)
	if outcome.Won {
		next = append(next, model.HighScoreEntry{
			PlayerName: outcome.PlayerName,
			Score:      outcome.Score,
			Attempts:   outcome.Attempts,
			Difficulty: outcome.Difficulty,
			Timestamp:  outcome.Timestamp,
			Won:        true,
		})
	}
	return NormalizeLeaderboard(next)
}

// NormalizeLeaderboard sorts board in place by score descending, keeping the
// order of equal scores, and truncates it to MaxHighScores.
func NormalizeLeaderboard(board []model.HighScoreEntry) []model.HighScoreEntry {
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	if len(board) > MaxHighScores {
		board = board[:MaxHighScores]
	}
	return board
}

// AppendHistory returns history with the outcome appended.
func AppendHistory(history []model.SessionOutcome, outcome model.SessionOutcome) []model.SessionOutcome {
	next := make([]model.SessionOutcome, len(history), len(history)+1)
	copy(next, history)
	return append(next, outcome)
}

// IsNewBest reports whether next improved on prev's fewest-attempts win.
func IsNewBest(prev, next model.AggregateStats) bool {
	if next.BestScore == nil {
		return false
	}
	return prev.BestScore == nil || *next.BestScore < *prev.BestScore
}

// IsNewHighScore reports whether the outcome's entry now leads the board.
func IsNewHighScore(outcome model.SessionOutcome, board []model.HighScoreEntry) bool {
	if !outcome.Won || len(board) == 0 {
		return false
	}
	top := board[0]
	return top.PlayerName == outcome.PlayerName &&
		top.Score == outcome.Score &&
		top.Attempts == outcome.Attempts &&
		top.Timestamp.Equal(outcome.Timestamp)
}
