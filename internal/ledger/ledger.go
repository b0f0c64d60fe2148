// Package ledger records finished sessions: it folds each outcome into the
// persisted state, rewrites the state file and archives the session.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/state"
	"github.com/verte-zerg/tuiguess/internal/stats"
)

// Archive stores finished sessions for later reporting.
type Archive interface {
	InsertOutcome(ctx context.Context, outcome model.SessionOutcome) error
}

// Result describes one recorded session.
type Result struct {
	Outcome      model.SessionOutcome
	Previous     model.AggregateStats
	Stats        model.AggregateStats
	HighScores   []model.HighScoreEntry
	NewBest      bool
	NewHighScore bool
	// SaveErr is set when the state file could not be written. The in-memory
	// state still includes the outcome.
	SaveErr error
}

// Ledger owns the process-wide persisted state.
type Ledger struct {
	path    string
	state   state.State
	archive Archive
	log     zerolog.Logger
	now     func() time.Time
}

// Open loads the state file at path. A nil archive disables archiving.
// Read failures fall back to empty state; the error is returned alongside a
// usable Ledger so callers can report it.
func Open(path string, archive Archive, log zerolog.Logger) (*Ledger, error) {
	l := &Ledger{
		path:    path,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
	st, err := state.Load(path)
	st.HighScores = stats.NormalizeLeaderboard(st.HighScores)
	l.state = st
	if err != nil {
		l.log.Warn().Err(err).Str("path", path).Msg("state file unreadable, starting fresh")
		return l, err
	}
	l.log.Debug().
		Str("path", path).
		Int("high_scores", len(st.HighScores)).
		Int("history", len(st.GameHistory)).
		Msg("state loaded")
	return l, nil
}

// Record terminates a finished session and folds its outcome into the state.
// It returns an error only when the session is still in progress.
func (l *Ledger) Record(ctx context.Context, s game.Session) (Result, error) {
	outcome, err := s.Terminate(l.now())
	if err != nil {
		return Result{}, err
	}

	prev := l.state.Stats
	nextStats, nextBoard := stats.RecordOutcome(outcome, prev, l.state.HighScores)
	l.state = state.State{
		HighScores:  nextBoard,
		Stats:       nextStats,
		GameHistory: stats.AppendHistory(l.state.GameHistory, outcome),
	}

	res := Result{
		Outcome:      outcome,
		Previous:     prev,
		Stats:        nextStats,
		HighScores:   nextBoard,
		NewBest:      outcome.Won && stats.IsNewBest(prev, nextStats),
		NewHighScore: stats.IsNewHighScore(outcome, nextBoard),
	}

	if err := state.Save(l.path, l.state); err != nil {
		l.log.Error().Err(err).Str("path", l.path).Msg("failed to save state")
		res.SaveErr = err
	}
	if l.archive != nil {
		if err := l.archive.InsertOutcome(ctx, outcome); err != nil {
			l.log.Warn().Err(err).Str("session", outcome.ID).Msg("failed to archive session")
		}
	}

	l.log.Info().
		Str("session", outcome.ID).
		Str("player", outcome.PlayerName).
		Str("difficulty", outcome.Difficulty).
		Bool("won", outcome.Won).
		Int("attempts", outcome.Attempts).
		Int("score", outcome.Score).
		Bool("new_high_score", res.NewHighScore).
		Msg("session recorded")
	return res, nil
}

// Abandon logs a session dropped before reaching a terminal state. Stats are unaffected.
func (l *Ledger) Abandon(s game.Session) {
	l.log.Info().
		Str("player", s.Player()).
		Str("difficulty", s.Config().Label).
		Int("attempts", s.Attempts()).
		Msg("session abandoned")
}

// Reset clears the state and writes the empty file.
func (l *Ledger) Reset() error {
	l.state = state.Empty()
	if err := state.Save(l.path, l.state); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}
	l.log.Info().Str("path", l.path).Msg("state reset")
	return nil
}

// Stats returns the current aggregate stats.
func (l *Ledger) Stats() model.AggregateStats { return l.state.Stats }

// HighScores returns a copy of the leaderboard.
func (l *Ledger) HighScores() []model.HighScoreEntry {
	return append([]model.HighScoreEntry(nil), l.state.HighScores...)
}

// History returns a copy of the recorded outcomes, oldest first.
func (l *Ledger) History() []model.SessionOutcome {
	return append([]model.SessionOutcome(nil), l.state.GameHistory...)
}

// Path returns the state file path.
func (l *Ledger) Path() string { return l.path }
