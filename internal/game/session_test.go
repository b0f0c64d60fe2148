package game

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/tuiguess/internal/generator"
	"github.com/verte-zerg/tuiguess/internal/model"
)

// fixedSource always draws the same offset.
type fixedSource int

func (f fixedSource) Intn(int) int { return int(f) }

func mustLookup(t *testing.T, name string) model.GameConfig {
	t.Helper()
	cfg, err := Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return cfg
}

func startAt(t *testing.T, cfg model.GameConfig, target int) Session {
	t.Helper()
	s, err := Start(cfg, "ada", fixedSource(target-cfg.MinValue))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Target() != target {
		t.Fatalf("expected target %d, got %d", target, s.Target())
	}
	return s
}

func TestStartSamplesWithinRange(t *testing.T) {
	gen := generator.NewSeeded(42)
	for _, cfg := range Difficulties() {
		for i := 0; i < 500; i++ {
			s, err := Start(cfg, "ada", gen)
			if err != nil {
				t.Fatalf("start %s: %v", cfg.Key, err)
			}
			if s.Target() < cfg.MinValue || s.Target() > cfg.MaxValue {
				t.Fatalf("%s: target %d outside [%d, %d]", cfg.Key, s.Target(), cfg.MinValue, cfg.MaxValue)
			}
			if s.Status() != InProgress || s.Attempts() != 0 {
				t.Fatalf("unexpected fresh session: %v attempts=%d", s.Status(), s.Attempts())
			}
		}
	}
}

func TestStartWideRange(t *testing.T) {
	cfg := model.GameConfig{Label: "wide", MinValue: math.MinInt / 4, MaxValue: math.MaxInt / 4, MaxAttempts: 3, ScoreMultiplier: 1}
	gen := generator.NewSeeded(1)
	for i := 0; i < 100; i++ {
		s, err := Start(cfg, "ada", gen)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if s.Target() < cfg.MinValue || s.Target() > cfg.MaxValue {
			t.Fatalf("target %d outside [%d, %d]", s.Target(), cfg.MinValue, cfg.MaxValue)
		}
	}
}

func TestStartRequiresSource(t *testing.T) {
	if _, err := Start(mustLookup(t, "easy"), "ada", nil); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	cases := []model.GameConfig{
		{Label: "flat", MinValue: 5, MaxValue: 5, MaxAttempts: 3, ScoreMultiplier: 1},
		{Label: "inverted", MinValue: 10, MaxValue: 1, MaxAttempts: 3, ScoreMultiplier: 1},
		{Label: "no attempts", MinValue: 1, MaxValue: 10, MaxAttempts: 0, ScoreMultiplier: 1},
		{Label: "no multiplier", MinValue: 1, MaxValue: 10, MaxAttempts: 3, ScoreMultiplier: 0},
		{Label: "full int range", MinValue: math.MinInt, MaxValue: math.MaxInt, MaxAttempts: 3, ScoreMultiplier: 1},
		{Label: "span past max int", MinValue: -1, MaxValue: math.MaxInt, MaxAttempts: 3, ScoreMultiplier: 1},
		{Label: "span of max int", MinValue: 0, MaxValue: math.MaxInt, MaxAttempts: 3, ScoreMultiplier: 1},
	}
	for _, cfg := range cases {
		if _, err := Start(cfg, "ada", fixedSource(0)); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", cfg.Label, err)
		}
	}
}

func TestStartRejectsBlankPlayer(t *testing.T) {
	if _, err := Start(mustLookup(t, "easy"), "   ", fixedSource(0)); !errors.Is(err, ErrInvalidPlayer) {
		t.Fatalf("expected ErrInvalidPlayer, got %v", err)
	}
	s, err := Start(mustLookup(t, "easy"), "  ada ", fixedSource(0))
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Player() != "ada" {
		t.Fatalf("expected trimmed name, got %q", s.Player())
	}
}

func TestMediumWinScenario(t *testing.T) {
	s := startAt(t, mustLookup(t, "medium"), 42)

	want := []model.Comparison{model.TooLow, model.TooHigh, model.Correct}
	for i, guess := range []int{10, 60, 42} {
		var res model.GuessResult
		var err error
		s, res, err = s.Guess(guess)
		if err != nil {
			t.Fatalf("guess %d: %v", guess, err)
		}
		if res.Comparison != want[i] {
			t.Fatalf("guess %d: expected %v, got %v", guess, want[i], res.Comparison)
		}
		if res.Attempt != i+1 {
			t.Fatalf("guess %d: expected attempt %d, got %d", guess, i+1, res.Attempt)
		}
	}
	if s.Status() != Won || s.Attempts() != 3 {
		t.Fatalf("expected won in 3, got %v in %d", s.Status(), s.Attempts())
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out, err := s.Terminate(now)
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if !out.Won || out.Score != 160 || out.Attempts != 3 || out.TargetNumber != 42 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Difficulty != "Medium" || out.PlayerName != "ada" || !out.Timestamp.Equal(now) {
		t.Fatalf("unexpected outcome metadata: %+v", out)
	}
	if out.ID == "" || len(out.Guesses) != 3 {
		t.Fatalf("expected id and guess log, got %+v", out)
	}
}

func TestEasyLossOnLastAttempt(t *testing.T) {
	cfg := mustLookup(t, "easy")
	s := startAt(t, cfg, 25)
	for i := 1; i <= cfg.MaxAttempts; i++ {
		guess := 1
		if i%2 == 0 {
			guess = 50
		}
		var err error
		s, _, err = s.Guess(guess)
		if err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
		if i < cfg.MaxAttempts && s.Status() != InProgress {
			t.Fatalf("session ended early at attempt %d", i)
		}
	}
	if s.Status() != Lost {
		t.Fatalf("expected lost after %d guesses, got %v", cfg.MaxAttempts, s.Status())
	}
	out, err := s.Terminate(time.Now())
	if err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if out.Won || out.Score != 0 {
		t.Fatalf("expected zero-score loss, got %+v", out)
	}
}

func TestCorrectOnFinalAttemptWins(t *testing.T) {
	cfg := mustLookup(t, "expert")
	s := startAt(t, cfg, 250)
	for i := 1; i < cfg.MaxAttempts; i++ {
		var err error
		if s, _, err = s.Guess(1); err != nil {
			t.Fatalf("guess: %v", err)
		}
	}
	s, res, err := s.Guess(250)
	if err != nil {
		t.Fatalf("final guess: %v", err)
	}
	if res.Comparison != model.Correct || s.Status() != Won {
		t.Fatalf("expected win on last attempt, got %v/%v", res.Comparison, s.Status())
	}
}

func TestGuessOutOfRangeLeavesSessionUntouched(t *testing.T) {
	s := startAt(t, mustLookup(t, "medium"), 42)
	for _, guess := range []int{0, -3, 101} {
		next, res, err := s.Guess(guess)
		if !errors.Is(err, ErrGuessOutOfRange) {
			t.Fatalf("guess %d: expected ErrGuessOutOfRange, got %v", guess, err)
		}
		if res.Comparison == model.Correct {
			t.Fatalf("guess %d: rejected guess reported as correct", guess)
		}
		if next.Attempts() != 0 || next.Status() != InProgress {
			t.Fatalf("guess %d modified the session", guess)
		}
	}
}

func TestGuessAfterTerminalStatusFails(t *testing.T) {
	s := startAt(t, mustLookup(t, "medium"), 42)
	s, _, err := s.Guess(42)
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	if _, _, err := s.Guess(42); !errors.Is(err, ErrSessionNotInProgress) {
		t.Fatalf("expected ErrSessionNotInProgress, got %v", err)
	}
	if s.Attempts() != 1 {
		t.Fatalf("expected attempts to stay at 1, got %d", s.Attempts())
	}
}

func TestTerminateInProgressFails(t *testing.T) {
	s := startAt(t, mustLookup(t, "hard"), 100)
	if _, err := s.Terminate(time.Now()); !errors.Is(err, ErrSessionNotFinished) {
		t.Fatalf("expected ErrSessionNotFinished, got %v", err)
	}
}

func TestGuessDoesNotAliasPreviousSession(t *testing.T) {
	s0 := startAt(t, mustLookup(t, "medium"), 42)
	s1, _, _ := s0.Guess(10)
	s2a, _, _ := s1.Guess(20)
	s2b, _, _ := s1.Guess(90)
	if s1.Attempts() != 1 || s0.Attempts() != 0 {
		t.Fatalf("earlier sessions were modified")
	}
	if a, _ := s2a.Last(); a.Value != 20 {
		t.Fatalf("expected 20, got %d", a.Value)
	}
	if b, _ := s2b.Last(); b.Value != 90 {
		t.Fatalf("expected 90, got %d", b.Value)
	}
}

func TestAttemptsIncreaseByOne(t *testing.T) {
	s := startAt(t, mustLookup(t, "hard"), 150)
	prev := s.Attempts()
	for _, g := range []int{1, 500, 199, 0, 151} {
		next, _, err := s.Guess(g)
		if err != nil {
			if next.Attempts() != prev {
				t.Fatalf("rejected guess changed attempts")
			}
			continue
		}
		if next.Attempts() != prev+1 {
			t.Fatalf("expected %d attempts, got %d", prev+1, next.Attempts())
		}
		prev = next.Attempts()
		s = next
	}
	if s.Remaining() != s.Config().MaxAttempts-prev {
		t.Fatalf("unexpected remaining %d", s.Remaining())
	}
}

func TestBoundsNarrow(t *testing.T) {
	s := startAt(t, mustLookup(t, "medium"), 42)
	s, _, _ = s.Guess(10)
	s, _, _ = s.Guess(60)
	s, _, _ = s.Guess(30)
	low, high := s.Bounds()
	if low != 31 || high != 59 {
		t.Fatalf("expected [31, 59], got [%d, %d]", low, high)
	}
}
