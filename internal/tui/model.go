// Package tui provides the Bubble Tea game interface.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/ledger"
	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/stats"
)

type phase int

const (
	phaseName phase = iota
	phaseMenu
	phasePlaying
	phaseFinished
	phaseScores
)

const leaderboardRows = 10

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7875F"))
	winStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D216")).Bold(true)
	lossStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea game UI.
type Model struct {
	ledger *ledger.Ledger
	src    game.Source
	log    zerolog.Logger
	now    func() time.Time

	player    string
	presets   []model.GameConfig
	menuIndex int

	phase     phase
	prevPhase phase
	session   game.Session
	result    ledger.Result
	message   string

	nameInput  textinput.Model
	guessInput textinput.Model

	width  int
	height int
}

// NewModel constructs the game UI. An empty player starts on the name prompt;
// cfg preselects the difficulty in the menu.
func NewModel(l *ledger.Ledger, src game.Source, log zerolog.Logger, cfg model.GameConfig, player string) *Model {
	m := &Model{
		ledger:  l,
		src:     src,
		log:     log,
		now:     time.Now,
		player:  strings.TrimSpace(player),
		presets: game.Difficulties(),
	}
	for i, p := range m.presets {
		if p.Key == cfg.Key {
			m.menuIndex = i
		}
	}

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "Name: "
	m.nameInput.Placeholder = "your name"
	m.nameInput.CharLimit = 32

	m.guessInput = textinput.New()
	m.guessInput.Prompt = "Guess: "

	if m.player == "" {
		m.phase = phaseName
		m.nameInput.Focus()
	} else {
		m.phase = phaseMenu
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.abandon()
			return m, tea.Quit
		}
		switch m.phase {
		case phaseName:
			return m.updateName(msg)
		case phaseMenu:
			return m.updateMenu(msg)
		case phasePlaying:
			return m.updatePlaying(msg)
		case phaseFinished:
			return m.updateFinished(msg)
		case phaseScores:
			return m.updateScores(msg)
		}
	}
	return m, nil
}

func (m *Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.message = "Name cannot be empty."
			return m, nil
		}
		m.player = name
		m.message = ""
		m.nameInput.Blur()
		m.phase = phaseMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.menuIndex = (m.menuIndex - 1 + len(m.presets)) % len(m.presets)
	case "down", "j":
		m.menuIndex = (m.menuIndex + 1) % len(m.presets)
	case "enter", " ":
		return m, m.startGame()
	case "s":
		m.showScores()
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.presets) {
			m.menuIndex = n - 1
			return m, m.startGame()
		}
	}
	return m, nil
}

func (m *Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.abandon()
		m.message = "Game cancelled."
		m.phase = phaseMenu
		return m, nil
	case tea.KeyEnter:
		m.submitGuess()
		return m, nil
	case tea.KeyRunes:
		digits := digitsOnly(msg.Runes)
		if len(digits) == 0 {
			return m, nil
		}
		msg.Runes = digits
	case tea.KeySpace:
		return m, nil
	}
	var cmd tea.Cmd
	m.guessInput, cmd = m.guessInput.Update(msg)
	return m, cmd
}

func (m *Model) updateFinished(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r", "enter":
		return m, m.startGame()
	case "m":
		m.message = ""
		m.phase = phaseMenu
	case "s":
		m.showScores()
	}
	return m, nil
}

func (m *Model) updateScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "b", "enter", "s":
		m.phase = m.prevPhase
	}
	return m, nil
}

func (m *Model) showScores() {
	m.prevPhase = m.phase
	m.phase = phaseScores
}

func (m *Model) startGame() tea.Cmd {
	cfg := m.presets[m.menuIndex]
	s, err := game.Start(cfg, m.player, m.src)
	if err != nil {
		m.log.Error().Err(err).Str("difficulty", cfg.Key).Msg("failed to start game")
		m.message = err.Error()
		return nil
	}
	m.session = s
	m.result = ledger.Result{}
	m.message = ""
	m.phase = phasePlaying
	m.guessInput.Reset()
	m.guessInput.CharLimit = len(strconv.Itoa(cfg.MaxValue))
	m.guessInput.Placeholder = fmt.Sprintf("%d-%d", cfg.MinValue, cfg.MaxValue)
	return m.guessInput.Focus()
}

func (m *Model) submitGuess() {
	cfg := m.session.Config()
	rangeMsg := fmt.Sprintf("Enter a number between %d and %d.", cfg.MinValue, cfg.MaxValue)
	value, err := strconv.Atoi(strings.TrimSpace(m.guessInput.Value()))
	m.guessInput.Reset()
	if err != nil {
		m.message = rangeMsg
		return
	}
	next, _, err := m.session.Guess(value)
	if errors.Is(err, game.ErrGuessOutOfRange) {
		m.message = rangeMsg
		return
	}
	if err != nil {
		m.message = err.Error()
		return
	}
	m.session = next
	m.message = ""
	if !next.Status().Terminal() {
		return
	}

	res, err := m.ledger.Record(context.Background(), next)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to record session")
		m.message = err.Error()
		return
	}
	m.result = res
	m.guessInput.Blur()
	m.phase = phaseFinished
}

// abandon drops an in-progress session without touching stats.
func (m *Model) abandon() {
	if m.phase != phasePlaying {
		return
	}
	m.ledger.Abandon(m.session)
	m.guessInput.Blur()
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.phase {
	case phaseName:
		body = m.viewName()
	case phaseMenu:
		body = m.viewMenu()
	case phasePlaying:
		body = m.viewPlaying()
	case phaseFinished:
		body = m.viewFinished()
	case phaseScores:
		body = m.viewScores()
	}
	if m.message != "" {
		body += "\n\n" + errorStyle.Render(m.message)
	}
	content := titleStyle.Render("Number Guessing Game") + "\n\n" + body
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - lipgloss.Height(footer)
	view := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return view + "\n" + footerLine
}

func (m *Model) viewName() string {
	return "What's your name?\n\n" + m.nameInput.View() + "\n\n" +
		pendingStyle.Render("enter: continue  esc: quit")
}

func (m *Model) viewMenu() string {
	lines := []string{fmt.Sprintf("Hello, %s! Select difficulty:", m.player), ""}
	for i, cfg := range m.presets {
		line := fmt.Sprintf("%d) %s", i+1, game.Describe(cfg))
		if i == m.menuIndex {
			lines = append(lines, selectedStyle.Render("> "+line))
		} else {
			lines = append(lines, pendingStyle.Render("  "+line))
		}
	}
	lines = append(lines, "", pendingStyle.Render("up/down: select  enter: play  s: high scores  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewPlaying() string {
	cfg := m.session.Config()
	low, high := m.session.Bounds()
	lines := []string{
		fmt.Sprintf("%s: I'm thinking of a number between %d and %d.", cfg.Label, cfg.MinValue, cfg.MaxValue),
		fmt.Sprintf("Attempt %d/%d (%d left)", m.session.Attempts()+1, cfg.MaxAttempts, m.session.Remaining()),
		"",
	}
	lines = append(lines, renderGuesses(m.session.Guesses())...)
	if last, ok := m.session.Last(); ok {
		lines = append(lines, "",
			fmt.Sprintf("Last guess %d was %s.", last.Value, last.Comparison),
			pendingStyle.Render(fmt.Sprintf("Narrowed to %d-%d", low, high)))
	}
	lines = append(lines, "", m.guessInput.View(), "", pendingStyle.Render("enter: guess  esc: give up"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewFinished() string {
	out := m.result.Outcome
	var lines []string
	if out.Won {
		lines = append(lines,
			winStyle.Render(fmt.Sprintf("Congratulations! You guessed %d in %d attempts.", out.TargetNumber, out.Attempts)),
			fmt.Sprintf("Your score: %s points", humanize.Comma(int64(out.Score))),
		)
		switch {
		case m.result.NewHighScore:
			lines = append(lines, winStyle.Render("NEW HIGH SCORE!"))
		case m.result.NewBest:
			lines = append(lines, winStyle.Render("New personal best!"))
		}
	} else {
		lines = append(lines, lossStyle.Render(fmt.Sprintf("Game over! The number was %d.", out.TargetNumber)))
	}
	lines = append(lines, "")
	lines = append(lines, renderGuesses(m.session.Guesses())...)
	lines = append(lines, "", pendingStyle.Render("r: play again  m: menu  s: high scores  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewScores() string {
	var buf bytes.Buffer
	if err := stats.RenderLeaderboard(&buf, m.ledger.HighScores(), leaderboardRows, m.now()); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render high scores: %v", err))
	}
	return strings.TrimRight(buf.String(), "\n") + "\n\n" + pendingStyle.Render("esc: back  q: quit")
}

func (m *Model) renderFooter() string {
	agg := m.ledger.Stats()
	best := "-"
	if agg.BestScore != nil {
		best = fmt.Sprintf("%d attempts", *agg.BestScore)
	}
	segments := []string{
		fmt.Sprintf("Games %d", agg.GamesPlayed),
		fmt.Sprintf("Wins %d (%.0f%%)", agg.Wins, stats.WinRate(agg)*100),
		fmt.Sprintf("Best %s", best),
		fmt.Sprintf("Total %s", humanize.Comma(int64(agg.TotalScore))),
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.result.SaveErr != nil {
		footer += "\n" + errorStyle.Render(fmt.Sprintf("Could not save scores: %v", m.result.SaveErr))
	}
	return footer
}

func renderGuesses(guesses []model.GuessResult) []string {
	lines := make([]string, 0, len(guesses))
	for _, g := range guesses {
		label := fmt.Sprintf("#%d  %d  %s", g.Attempt, g.Value, g.Comparison)
		switch g.Comparison {
		case model.TooLow:
			lines = append(lines, lowStyle.Render(label))
		case model.TooHigh:
			lines = append(lines, highStyle.Render(label))
		default:
			lines = append(lines, winStyle.Render(label))
		}
	}
	return lines
}

func digitsOnly(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return out
}
