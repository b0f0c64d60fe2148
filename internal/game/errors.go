package game

import "errors"

var (
	// ErrInvalidConfig reports a difficulty that violates its invariants.
	ErrInvalidConfig = errors.New("invalid game config")
	// ErrInvalidPlayer reports an empty player name.
	ErrInvalidPlayer = errors.New("player name must not be empty")
	// ErrNoSource reports a session started without a random source.
	ErrNoSource = errors.New("random source must not be nil")
	// ErrGuessOutOfRange reports a guess outside the configured bounds. The session is unchanged.
	ErrGuessOutOfRange = errors.New("guess out of range")
	// ErrSessionNotInProgress reports a guess against a finished session.
	ErrSessionNotInProgress = errors.New("session not in progress")
	// ErrSessionNotFinished reports a terminate call on a session still in progress.
	ErrSessionNotFinished = errors.New("session not finished")
	// ErrUnknownDifficulty reports a difficulty name with no matching preset.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
