package game

import "github.com/verte-zerg/tuiguess/internal/model"

// Score rewards fewer attempts and harder presets. Losses score zero.
func Score(attempts int, cfg model.GameConfig, won bool) int {
	if !won {
		return 0
	}
	base := cfg.MaxAttempts - attempts + 1
	if base < 0 {
		base = 0
	}
	return base * cfg.ScoreMultiplier * 10
}
