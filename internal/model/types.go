// Package model defines shared data structures.
package model

import "time"

// GameConfig describes one difficulty: guess range, attempt budget and multiplier.
type GameConfig struct {
	Key             string `json:"key"`
	Label           string `json:"label"`
	MinValue        int    `json:"minValue"`
	MaxValue        int    `json:"maxValue"`
	MaxAttempts     int    `json:"maxAttempts"`
	ScoreMultiplier int    `json:"scoreMultiplier"`
}

// Comparison is the verdict for a single guess. The zero value is not a verdict.
type Comparison int

const (
	Correct Comparison = iota + 1
	TooLow
	TooHigh
)

// String returns the lowercase display form of the comparison.
func (c Comparison) String() string {
	switch c {
	case Correct:
		return "correct"
	case TooLow:
		return "too low"
	case TooHigh:
		return "too high"
	default:
		return "unknown"
	}
}

// GuessResult is the evaluation of one accepted guess.
type GuessResult struct {
	Value      int        `json:"guess"`
	Comparison Comparison `json:"comparison"`
	Attempt    int        `json:"attempt"`
}

// SessionOutcome is the terminal record of a finished session.
type SessionOutcome struct {
	ID           string    `json:"id,omitempty"`
	PlayerName   string    `json:"playerName"`
	Difficulty   string    `json:"difficulty"`
	TargetNumber int       `json:"targetNumber"`
	Attempts     int       `json:"attempts"`
	Won          bool      `json:"won"`
	Score        int       `json:"score"`
	Timestamp    time.Time `json:"timestamp"`

	// Guesses is archived separately and never written to the state file.
	Guesses []GuessResult `json:"-"`
}

// AggregateStats summarizes every recorded session.
type AggregateStats struct {
	GamesPlayed int  `json:"gamesPlayed"`
	Wins        int  `json:"wins"`
	BestScore   *int `json:"bestScore"`
	TotalScore  int  `json:"totalScore"`
}

// HighScoreEntry is a leaderboard row. Only wins produce entries.
type HighScoreEntry struct {
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Attempts   int       `json:"attempts"`
	Difficulty string    `json:"difficulty"`
	Timestamp  time.Time `json:"timestamp"`
	Won        bool      `json:"won"`
}

// HistoryFilter narrows archived outcomes for reporting.
type HistoryFilter struct {
	Difficulty string
	Player     string
	Since      *time.Time
	Last       int
}
