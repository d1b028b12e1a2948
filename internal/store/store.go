// Package store handles SQLite persistence of finished attempts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/pathdrag/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for attempt history.
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
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			pattern TEXT NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			stroke_width REAL NOT NULL,
			tolerance REAL NOT NULL,
			outcome TEXT NOT NULL,
			best_progress REAL NOT NULL,
			samples INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_pattern ON attempts(pattern);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a finished attempt. An empty UUID is filled in.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	switch a.Outcome {
	case model.OutcomeWon, model.OutcomeLost, model.OutcomeAbandoned:
	default:
		return 0, fmt.Errorf("unknown outcome %q", a.Outcome)
	}
	if a.UUID == "" {
		a.UUID = uuid.NewString()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (uuid, started_at, ended_at, pattern, width, height, stroke_width, tolerance, outcome, best_progress, samples, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UUID,
		a.StartedAt.UTC().Format(time.RFC3339Nano),
		a.EndedAt.UTC().Format(time.RFC3339Nano),
		a.Pattern,
		a.Width,
		a.Height,
		a.StrokeWidth,
		a.Tolerance,
		string(a.Outcome),
		a.BestProgress,
		a.Samples,
		a.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns attempt aggregates filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Pattern != "" {
		clauses = append(clauses, "pattern = ?")
		args = append(args, cfg.Pattern)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, pattern, outcome, best_progress, duration_ms
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt, outcome string
		if err := rows.Scan(&agg.AttemptID, &endedAt, &agg.Pattern, &outcome, &agg.BestProgress, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Outcome = model.Outcome(outcome)
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// PatternAggregates aggregates attempts per pattern for the given attempt ids.
func (s *Store) PatternAggregates(ctx context.Context, attemptIDs []int64) ([]model.PatternAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT pattern, COUNT(*) AS attempts,
		SUM(CASE WHEN outcome = 'won' THEN 1 ELSE 0 END) AS wins,
		SUM(CASE WHEN outcome = 'lost' THEN 1 ELSE 0 END) AS losses,
		SUM(best_progress) AS best_progress_sum,
		SUM(duration_ms) AS duration_sum_ms
		FROM attempts
		WHERE id IN (%s)
		GROUP BY pattern
		ORDER BY pattern`, strings.Join(placeholders, ","))
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

	var result []model.PatternAggregate
	for rows.Next() {
		var agg model.PatternAggregate
		if err := rows.Scan(&agg.Pattern, &agg.Attempts, &agg.Wins, &agg.Losses, &agg.BestProgressSum, &agg.DurationSumMs); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// LastAttempt returns the most recent attempt, if any.
func (s *Store) LastAttempt(ctx context.Context) (model.Attempt, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT uuid, started_at, ended_at, pattern, width, height, stroke_width, tolerance, outcome, best_progress, samples, duration_ms
		 FROM attempts ORDER BY ended_at DESC, id DESC LIMIT 1`)
	var a model.Attempt
	var startedAt, endedAt, outcome string
	err := row.Scan(&a.UUID, &startedAt, &endedAt, &a.Pattern, &a.Width, &a.Height, &a.StrokeWidth, &a.Tolerance, &outcome, &a.BestProgress, &a.Samples, &a.DurationMs)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Attempt{}, false, nil
	}
	if err != nil {
		return model.Attempt{}, false, err
	}
	if a.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.Attempt{}, false, err
	}
	if a.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.Attempt{}, false, err
	}
	a.Outcome = model.Outcome(outcome)
	return a, true, nil
}
