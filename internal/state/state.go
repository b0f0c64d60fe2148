// Package state persists aggregate stats, the leaderboard and game history as JSON.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/tuiguess/internal/model"
)

// State is the whole persisted file. It is read once at startup and
// rewritten wholesale after every finished session.
type State struct {
	HighScores  []model.HighScoreEntry `json:"highScores"`
	Stats       model.AggregateStats   `json:"stats"`
	GameHistory []model.SessionOutcome `json:"gameHistory"`
}

// Empty returns the defaults used when no file exists.
func Empty() State {
	return State{
		HighScores:  []model.HighScoreEntry{},
		GameHistory: []model.SessionOutcome{},
	}
}

// Load reads the state file. A missing file yields Empty and no error. Any
// other failure also yields Empty together with the error, so callers can
// report it and keep playing.
func Load(path string) (State, error) {
	if path == "" {
		return Empty(), fmt.Errorf("state path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return Empty(), fmt.Errorf("failed to read state: %w", err)
	}
	st := Empty()
	if err := json.Unmarshal(data, &st); err != nil {
		return Empty(), fmt.Errorf("failed to decode state: %w", err)
	}
	if st.HighScores == nil {
		st.HighScores = []model.HighScoreEntry{}
	}
	if st.GameHistory == nil {
		st.GameHistory = []model.SessionOutcome{}
	}
	return st, nil
}

// Save writes the state pretty-printed through a temp file and rename.
func Save(path string, st State) error {
	if path == "" {
		return fmt.Errorf("state path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	enc := json.NewEncoder(tmpFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
