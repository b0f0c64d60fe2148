package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiguess/internal/model"
)

// RenderSummary prints aggregate stats.
func RenderSummary(w io.Writer, agg model.AggregateStats) error {
	best := "-"
	if agg.BestScore != nil {
		best = fmt.Sprintf("%d attempts", *agg.BestScore)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", agg.GamesPlayed),
		fmt.Sprintf("Wins: %d (%.1f%%)", agg.Wins, WinRate(agg)*100),
		fmt.Sprintf("Best: %s", best),
		fmt.Sprintf("Total score: %s", humanize.Comma(int64(agg.TotalScore))),
		fmt.Sprintf("Avg score: %.1f", AverageScore(agg)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLeaderboard prints the first top entries of the board.
func RenderLeaderboard(w io.Writer, board []model.HighScoreEntry, top int, now time.Time) error {
	if len(board) == 0 {
		_, err := fmt.Fprintln(w, "No high scores recorded yet.")
		return err
	}
	if top > 0 && top < len(board) {
		board = board[:top]
	}
	if _, err := fmt.Fprintln(w, "High Scores"); err != nil {
		return err
	}
	headers := []string{"#", "Player", "Score", "Attempts", "Difficulty", "When"}
	rows := make([][]string, 0, len(board))
	for i, e := range board {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.PlayerName,
			humanize.Comma(int64(e.Score)),
			strconv.Itoa(e.Attempts),
			e.Difficulty,
			relTime(e.Timestamp, now),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true}))
}

// RenderHistory prints archived outcomes, newest last.
func RenderHistory(w io.Writer, outcomes []model.SessionOutcome, now time.Time) error {
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	headers := []string{"Player", "Difficulty", "Result", "Target", "Attempts", "Score", "When"}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.PlayerName,
			o.Difficulty,
			resultLabel(o.Won),
			strconv.Itoa(o.TargetNumber),
			strconv.Itoa(o.Attempts),
			humanize.Comma(int64(o.Score)),
			relTime(o.Timestamp, now),
		})
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true}))
}

// RenderGuesses prints the guess log of each outcome that carries one.
func RenderGuesses(w io.Writer, outcomes []model.SessionOutcome) error {
	printed := false
	for _, o := range outcomes {
		if len(o.Guesses) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s, %s, %s in %d\n", o.PlayerName, o.Difficulty, resultLabel(o.Won), o.Attempts); err != nil {
			return err
		}
		for _, g := range o.Guesses {
			if _, err := fmt.Fprintf(w, "  %d. %d %s\n", g.Attempt, g.Value, g.Comparison); err != nil {
				return err
			}
		}
		printed = true
	}
	if !printed {
		_, err := fmt.Fprintln(w, "No guess logs archived.")
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderBreakdown prints per-difficulty aggregates.
func RenderBreakdown(w io.Writer, breakdown []DifficultyBreakdown) error {
	if len(breakdown) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "By Difficulty"); err != nil {
		return err
	}
	headers := []string{"Difficulty", "Games", "Wins", "Win %", "Best", "Avg Attempts"}
	rows := make([][]string, 0, len(breakdown))
	for _, b := range breakdown {
		rate := 0.0
		if b.Games > 0 {
			rate = float64(b.Wins) / float64(b.Games) * 100
		}
		avg := "-"
		if b.Wins > 0 {
			avg = fmt.Sprintf("%.1f", b.AvgAttempts)
		}
		rows = append(rows, []string{
			b.Difficulty,
			strconv.Itoa(b.Games),
			strconv.Itoa(b.Wins),
			fmt.Sprintf("%.1f%%", rate),
			strconv.Itoa(b.BestScore),
			avg,
		})
	}
	if err := writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a smoothed score sparkline sized to width columns.
func RenderTrend(w io.Writer, outcomes []model.SessionOutcome, window, width int) error {
	if len(outcomes) == 0 {
		return nil
	}
	const label = "Score trend "
	line := ScoreTrend(outcomes, window, width-len(label)-2)
	_, err := fmt.Fprintf(w, "%s[%s]\n", label, line)
	return err
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func resultLabel(won bool) string {
	if won {
		return "won"
	}
	return "lost"
}

func relTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
