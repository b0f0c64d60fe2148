package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuiguess/internal/model"
)

// Status is the lifecycle state of a session.
type Status int

const (
	InProgress Status = iota
	Won
	Lost
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// Source supplies uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

// Session is one round of guessing against a single target.
// Transitions return a new Session and never modify the receiver.
type Session struct {
	player  string
	config  model.GameConfig
	target  int
	guesses []model.GuessResult
	status  Status
}

// Start validates the configuration and samples a target in [MinValue, MaxValue].
func Start(cfg model.GameConfig, player string, src Source) (Session, error) {
	if err := Validate(cfg); err != nil {
		return Session{}, err
	}
	if src == nil {
		return Session{}, ErrNoSource
	}
	player = strings.TrimSpace(player)
	if player == "" {
		return Session{}, ErrInvalidPlayer
	}
	target := cfg.MinValue + src.Intn(cfg.MaxValue-cfg.MinValue+1)
	return Session{
		player: player,
		config: cfg,
		target: target,
		status: InProgress,
	}, nil
}

// Guess evaluates a guess. An out-of-range guess returns ErrGuessOutOfRange and
// the unchanged session; the caller is expected to re-prompt.
func (s Session) Guess(value int) (Session, model.GuessResult, error) {
	if s.status != InProgress {
		return s, model.GuessResult{}, fmt.Errorf("%w: session already %s", ErrSessionNotInProgress, s.status)
	}
	if value < s.config.MinValue || value > s.config.MaxValue {
		return s, model.GuessResult{}, fmt.Errorf("%w: %d is not between %d and %d", ErrGuessOutOfRange, value, s.config.MinValue, s.config.MaxValue)
	}

	attempt := len(s.guesses) + 1
	result := model.GuessResult{
		Value:      value,
		Comparison: compare(value, s.target),
		Attempt:    attempt,
	}

	next := s
	next.guesses = make([]model.GuessResult, len(s.guesses), len(s.guesses)+1)
	copy(next.guesses, s.guesses)
	next.guesses = append(next.guesses, result)

	// A correct guess on the last attempt is a win.
	switch {
	case result.Comparison == model.Correct:
		next.status = Won
	case attempt == s.config.MaxAttempts:
		next.status = Lost
	}
	return next, result, nil
}

// Terminate converts a finished session into its outcome. It must be called
// once per session; the session should be discarded afterwards.
func (s Session) Terminate(now time.Time) (model.SessionOutcome, error) {
	if !s.status.Terminal() {
		return model.SessionOutcome{}, ErrSessionNotFinished
	}
	won := s.status == Won
	return model.SessionOutcome{
		ID:           uuid.NewString(),
		PlayerName:   s.player,
		Difficulty:   s.config.Label,
		TargetNumber: s.target,
		Attempts:     s.Attempts(),
		Won:          won,
		Score:        Score(s.Attempts(), s.config, won),
		Timestamp:    now,
		Guesses:      s.Guesses(),
	}, nil
}

// Player returns the trimmed player name.
func (s Session) Player() string { return s.player }

// Config returns the difficulty the session was started with.
func (s Session) Config() model.GameConfig { return s.config }

// Target returns the sampled number.
func (s Session) Target() int { return s.target }

// Status returns the current lifecycle state.
func (s Session) Status() Status { return s.status }

// Attempts returns the number of accepted guesses.
func (s Session) Attempts() int { return len(s.guesses) }

// Remaining returns how many guesses are left.
func (s Session) Remaining() int { return s.config.MaxAttempts - len(s.guesses) }

// Guesses returns a copy of the guess log in submission order.
func (s Session) Guesses() []model.GuessResult {
	return append([]model.GuessResult(nil), s.guesses...)
}

// Last returns the most recent guess, if any.
func (s Session) Last() (model.GuessResult, bool) {
	if len(s.guesses) == 0 {
		return model.GuessResult{}, false
	}
	return s.guesses[len(s.guesses)-1], true
}

// Bounds narrows the configured range using the too-low and too-high verdicts so far.
func (s Session) Bounds() (low, high int) {
	low, high = s.config.MinValue, s.config.MaxValue
	for _, g := range s.guesses {
		switch g.Comparison {
		case model.TooLow:
			if g.Value+1 > low {
				low = g.Value + 1
			}
		case model.TooHigh:
			if g.Value-1 < high {
				high = g.Value - 1
			}
		case model.Correct:
			low, high = g.Value, g.Value
		}
	}
	return low, high
}

func compare(guess, target int) model.Comparison {
	switch {
	case guess == target:
		return model.Correct
	case guess < target:
		return model.TooLow
	default:
		return model.TooHigh
	}
}
