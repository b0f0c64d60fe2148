// Package prompt runs the game as a line-based question and answer loop.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/ledger"
	"github.com/verte-zerg/tuiguess/internal/model"
)

// errQuit ends the loop when input is exhausted or the player types q.
var errQuit = errors.New("quit")

// Prompter drives sessions over a reader and a writer.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	ledger *ledger.Ledger
	src    game.Source
	log    zerolog.Logger

	info    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Prompter. Colors are enabled only when out is a terminal.
func New(in io.Reader, out io.Writer, l *ledger.Ledger, src game.Source, log zerolog.Logger) *Prompter {
	r := lipgloss.NewRenderer(out)
	return &Prompter{
		in:      bufio.NewScanner(in),
		out:     out,
		ledger:  l,
		src:     src,
		log:     log,
		info:    r.NewStyle().Foreground(lipgloss.Color("#5FAFD7")),
		success: r.NewStyle().Foreground(lipgloss.Color("#73D216")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	}
}

// Run plays sessions until the player declines another round or input ends.
// An empty player is asked for; cfg is used as the default difficulty.
func (p *Prompter) Run(ctx context.Context, player string, cfg model.GameConfig) error {
	p.println(p.info.Render("Welcome to the Number Guessing Game!"))
	player = strings.TrimSpace(player)
	if player == "" {
		name, err := p.askName()
		if errors.Is(err, errQuit) {
			p.println("Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
		player = name
	}

	for {
		chosen, err := p.askDifficulty(cfg)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			return err
		}
		cfg = chosen

		if err := p.play(ctx, player, cfg); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			return err
		}

		again, err := p.confirm("Do you want to play again? [Y/n] ")
		if err != nil && !errors.Is(err, errQuit) {
			return err
		}
		if !again {
			break
		}
	}
	p.println("Thank you for playing!")
	return nil
}

func (p *Prompter) play(ctx context.Context, player string, cfg model.GameConfig) error {
	s, err := game.Start(cfg, player, p.src)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	p.printf("I'm thinking of a number between %d and %d.\n", cfg.MinValue, cfg.MaxValue)
	p.printf("You have %d attempts to guess the number.\n", cfg.MaxAttempts)

	for !s.Status().Terminal() {
		line, err := p.ask(fmt.Sprintf("Attempt %d/%d (%d left) - Guess the number: ", s.Attempts()+1, cfg.MaxAttempts, s.Remaining()))
		if errors.Is(err, errQuit) || (err == nil && strings.EqualFold(line, "q")) {
			p.ledger.Abandon(s)
			p.println(p.muted.Render("Game cancelled."))
			return errQuit
		}
		if err != nil {
			p.ledger.Abandon(s)
			return err
		}
		value, err := strconv.Atoi(line)
		if err != nil {
			p.printf("Please enter a number between %d and %d.\n", cfg.MinValue, cfg.MaxValue)
			continue
		}
		next, res, err := s.Guess(value)
		if errors.Is(err, game.ErrGuessOutOfRange) {
			p.printf("Please enter a number between %d and %d.\n", cfg.MinValue, cfg.MaxValue)
			continue
		}
		if err != nil {
			return err
		}
		s = next
		switch res.Comparison {
		case model.TooLow:
			p.println("Too low. Try a higher number.")
		case model.TooHigh:
			p.println("Too high. Try a lower number.")
		}
	}

	result, err := p.ledger.Record(ctx, s)
	if err != nil {
		return err
	}
	p.report(result)
	return nil
}

func (p *Prompter) report(res ledger.Result) {
	out := res.Outcome
	if out.Won {
		p.println(p.success.Render(fmt.Sprintf("Congratulations! You guessed %d in %d attempts.", out.TargetNumber, out.Attempts)))
		p.printf("Your score: %d points\n", out.Score)
		if res.NewHighScore {
			p.println(p.success.Render("NEW HIGH SCORE!"))
		} else if res.NewBest {
			p.println(p.success.Render("New personal best!"))
		}
	} else {
		p.println(p.failure.Render(fmt.Sprintf("Game over! The number was %d.", out.TargetNumber)))
	}
	p.println(p.muted.Render(fmt.Sprintf("Games: %d | Wins: %d | Total Score: %d",
		res.Stats.GamesPlayed, res.Stats.Wins, res.Stats.TotalScore)))
	if res.SaveErr != nil {
		p.println(p.failure.Render(fmt.Sprintf("Warning: could not save scores: %v", res.SaveErr)))
	}
}

func (p *Prompter) askName() (string, error) {
	for {
		name, err := p.ask("Enter your name: ")
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
		p.println("Name cannot be empty.")
	}
}

func (p *Prompter) askDifficulty(current model.GameConfig) (model.GameConfig, error) {
	presets := game.Difficulties()
	p.println("Select difficulty:")
	for i, cfg := range presets {
		marker := " "
		if cfg.Key == current.Key {
			marker = "*"
		}
		p.printf(" %s %d) %s\n", marker, i+1, game.Describe(cfg))
	}
	for {
		line, err := p.ask(fmt.Sprintf("Choice [enter for %s]: ", current.Label))
		if err != nil {
			return model.GameConfig{}, err
		}
		if line == "" {
			return current, nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(presets) {
			return presets[n-1], nil
		}
		if cfg, err := game.Lookup(line); err == nil {
			return cfg, nil
		}
		p.printf("Please choose 1-%d or a difficulty name.\n", len(presets))
	}
}

func (p *Prompter) confirm(question string) (bool, error) {
	line, err := p.ask(question)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		p.println("")
		return "", errQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) println(s string) {
	if _, err := fmt.Fprintln(p.out, s); err != nil {
		p.log.Debug().Err(err).Msg("failed to write output")
	}
}

func (p *Prompter) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(p.out, format, args...); err != nil {
		p.log.Debug().Err(err).Msg("failed to write output")
	}
}
