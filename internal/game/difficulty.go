// Package game implements the number-guessing session lifecycle and scoring.
package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/tuiguess/internal/model"
)

// DefaultDifficulty is the preset used when none is selected.
const DefaultDifficulty = "medium"

var presets = []model.GameConfig{
	{Key: "easy", Label: "Easy", MinValue: 1, MaxValue: 50, MaxAttempts: 15, ScoreMultiplier: 1},
	{Key: "medium", Label: "Medium", MinValue: 1, MaxValue: 100, MaxAttempts: 10, ScoreMultiplier: 2},
	{Key: "hard", Label: "Hard", MinValue: 1, MaxValue: 200, MaxAttempts: 8, ScoreMultiplier: 3},
	{Key: "expert", Label: "Expert", MinValue: 1, MaxValue: 500, MaxAttempts: 6, ScoreMultiplier: 5},
}

// Difficulties returns the preset configurations from easiest to hardest.
func Difficulties() []model.GameConfig {
	return append([]model.GameConfig(nil), presets...)
}

// Lookup finds a preset by key or label, case-insensitively.
func Lookup(name string) (model.GameConfig, error) {
	name = strings.TrimSpace(name)
	for _, cfg := range presets {
		if strings.EqualFold(cfg.Key, name) || strings.EqualFold(cfg.Label, name) {
			return cfg, nil
		}
	}
	keys := make([]string, len(presets))
	for i, cfg := range presets {
		keys[i] = cfg.Key
	}
	return model.GameConfig{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownDifficulty, name, strings.Join(keys, ", "))
}

// Validate checks the configuration invariants.
func Validate(cfg model.GameConfig) error {
	if cfg.MinValue >= cfg.MaxValue {
		return fmt.Errorf("%w: min %d must be below max %d", ErrInvalidConfig, cfg.MinValue, cfg.MaxValue)
	}
	// The span plus one must fit an int for sampling.
	if span := uint64(cfg.MaxValue) - uint64(cfg.MinValue); span >= math.MaxInt {
		return fmt.Errorf("%w: range %d-%d is too wide", ErrInvalidConfig, cfg.MinValue, cfg.MaxValue)
	}
	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be >= 1, got %d", ErrInvalidConfig, cfg.MaxAttempts)
	}
	if cfg.ScoreMultiplier <= 0 {
		return fmt.Errorf("%w: score multiplier must be > 0, got %d", ErrInvalidConfig, cfg.ScoreMultiplier)
	}
	return nil
}

// Describe renders a one-line summary such as "Medium (1-100, 10 attempts, 2x multiplier)".
func Describe(cfg model.GameConfig) string {
	return fmt.Sprintf("%s (%d-%d, %d attempts, %dx multiplier)", cfg.Label, cfg.MinValue, cfg.MaxValue, cfg.MaxAttempts, cfg.ScoreMultiplier)
}
