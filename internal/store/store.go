// Package store archives finished sessions in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuiguess/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for archived sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			target INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			won INTEGER NOT NULL,
			score INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS guesses (
			session_id TEXT NOT NULL,
			attempt INTEGER NOT NULL,
			value INTEGER NOT NULL,
			comparison TEXT NOT NULL,
			PRIMARY KEY (session_id, attempt)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_difficulty ON sessions(difficulty);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertOutcome stores a finished session and its guess log.
func (s *Store) InsertOutcome(ctx context.Context, outcome model.SessionOutcome) (err error) {
	if outcome.ID == "" {
		return fmt.Errorf("outcome has no id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	won := 0
	if outcome.Won {
		won = 1
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, player, difficulty, target, attempts, won, score, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.ID,
		outcome.PlayerName,
		outcome.Difficulty,
		outcome.TargetNumber,
		outcome.Attempts,
		won,
		outcome.Score,
		outcome.Timestamp.UTC().Format(timeLayout),
	); err != nil {
		return err
	}

	if len(outcome.Guesses) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO guesses (session_id, attempt, value, comparison) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, g := range outcome.Guesses {
			if _, err = stmt.ExecContext(ctx, outcome.ID, g.Attempt, g.Value, g.Comparison.String()); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// ListOutcomes returns archived sessions matching the filter, oldest first.
func (s *Store) ListOutcomes(ctx context.Context, filter model.HistoryFilter) ([]model.SessionOutcome, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Difficulty != "" {
		clauses = append(clauses, "difficulty = ? COLLATE NOCASE")
		args = append(args, filter.Difficulty)
	}
	if filter.Player != "" {
		clauses = append(clauses, "player = ? COLLATE NOCASE")
		args = append(args, filter.Player)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, player, difficulty, target, attempts, won, score, ended_at
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var outcomes []model.SessionOutcome
	for rows.Next() {
		var out model.SessionOutcome
		var won int
		var endedAt string
		if err := rows.Scan(&out.ID, &out.PlayerName, &out.Difficulty, &out.TargetNumber, &out.Attempts, &won, &out.Score, &endedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		out.Won = won != 0
		out.Timestamp = parsed
		outcomes = append(outcomes, out)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(outcomes) > filter.Last {
		outcomes = outcomes[len(outcomes)-filter.Last:]
	}
	return outcomes, nil
}

// ListGuesses returns the guess log of one archived session in attempt order.
func (s *Store) ListGuesses(ctx context.Context, sessionID string) ([]model.GuessResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT attempt, value, comparison FROM guesses WHERE session_id = ? ORDER BY attempt ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var guesses []model.GuessResult
	for rows.Next() {
		var g model.GuessResult
		var cmp string
		if err := rows.Scan(&g.Attempt, &g.Value, &cmp); err != nil {
			return nil, err
		}
		g.Comparison, err = parseComparison(cmp)
		if err != nil {
			return nil, err
		}
		guesses = append(guesses, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return guesses, nil
}

// DeleteAll removes every archived session.
func (s *Store) DeleteAll(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM guesses`, `DELETE FROM sessions`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func parseComparison(value string) (model.Comparison, error) {
	for _, c := range []model.Comparison{model.Correct, model.TooLow, model.TooHigh} {
		if c.String() == value {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown comparison %q", value)
}
