package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/tuiguess/internal/game"
	"github.com/verte-zerg/tuiguess/internal/ledger"
	"github.com/verte-zerg/tuiguess/internal/model"
	"github.com/verte-zerg/tuiguess/internal/store"
)

type offsetSource int

func (o offsetSource) Intn(int) int { return int(o) }

func seededLedger(t *testing.T, archive ledger.Archive) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(filepath.Join(t.TempDir(), "high-scores.json"), archive, zerolog.Nop())
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	plays := []struct {
		difficulty string
		player     string
		guesses    []int
	}{
		{"medium", "ada", []int{10, 60, 42}},
		{"easy", "bob", []int{42}},
		{"expert", "ada", []int{1, 1, 1, 1, 1, 1}},
	}
	for _, p := range plays {
		cfg, err := game.Lookup(p.difficulty)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		s, err := game.Start(cfg, p.player, offsetSource(41))
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		for _, g := range p.guesses {
			if s, _, err = s.Guess(g); err != nil {
				t.Fatalf("guess: %v", err)
			}
		}
		if _, err := l.Record(context.Background(), s); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	return l
}

func TestParseFilter(t *testing.T) {
	filter, window, err := parseFilter([]string{"hard", "ada", "2026-01-02", "5", "3"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Difficulty != "hard" || filter.Player != "ada" || filter.Last != 5 || window != 3 {
		t.Fatalf("unexpected filter: %+v window %d", filter, window)
	}
	if filter.Since == nil || filter.Since.Format("2006-01-02") != "2026-01-02" {
		t.Fatalf("unexpected since: %v", filter.Since)
	}

	_, window, err = parseFilter([]string{"", "", "", "", ""})
	if err != nil || window != defaultWindow {
		t.Fatalf("expected defaults, got window %d err %v", window, err)
	}

	bad := [][]string{
		{"", "", "02/01/2026", "", ""},
		{"", "", "", "-1", ""},
		{"", "", "", "", "0"},
	}
	for _, values := range bad {
		if _, _, err := parseFilter(values); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, c := range cases {
		if got := nextWindow(c.in); got != c.next {
			t.Fatalf("nextWindow(%d) = %d, want %d", c.in, got, c.next)
		}
		if got := prevWindow(c.in); got != c.prev {
			t.Fatalf("prevWindow(%d) = %d, want %d", c.in, got, c.prev)
		}
	}
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	outcomes := []model.SessionOutcome{
		{PlayerName: "ada", Difficulty: "Easy", Won: true, Score: 1500, Timestamp: now.Add(-2 * time.Hour)},
		{PlayerName: "bob", Difficulty: "Hard", Won: false, Timestamp: now.Add(-time.Minute)},
	}
	rows := historyRows(outcomes, now)
	if len(rows) != 2 || rows[0][0] != "bob" || rows[0][2] != "lost" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if rows[1][5] != "1,500" || rows[1][6] != "2 hours ago" {
		t.Fatalf("unexpected formatting: %v", rows[1])
	}
}

func TestFitLines(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
}

func TestModelFromLedger(t *testing.T) {
	l := seededLedger(t, nil)
	m := NewModel(nil, l, model.HistoryFilter{}, 0)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if len(m.report.Outcomes) != 3 || m.report.Totals.Wins != 2 {
		t.Fatalf("unexpected report: %+v", m.report.Totals)
	}
	if !strings.Contains(m.View(), "Win Rate") {
		t.Fatalf("overview missing cards:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabLeaderboard || len(m.scoreTable.Rows()) != 2 {
		t.Fatalf("expected 2 leaderboard rows on tab %d", m.activeTab)
	}
	if m.scoreTable.Rows()[0][1] != "ada" || m.scoreTable.Rows()[0][2] != "160" {
		t.Fatalf("expected medium win first, got %v", m.scoreTable.Rows()[0])
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ada")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || m.filter.Player != "ada" {
		t.Fatalf("expected applied player filter, got %+v", m.filter)
	}
	if len(m.report.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes for ada, got %d", len(m.report.Outcomes))
	}
}

func TestModelFromArchive(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	l := seededLedger(t, st)
	m := NewModel(st, l, model.HistoryFilter{Difficulty: "expert"}, 3)
	if len(m.report.Outcomes) != 1 || m.report.Outcomes[0].Won {
		t.Fatalf("expected the single expert loss, got %+v", m.report.Outcomes)
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
}
