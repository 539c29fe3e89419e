package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for optimization runs.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the SQLite database and migrates it.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run and its channel rows in one transaction.
func (s *Storage) SaveRun(ctx context.Context, run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	result := string(run.Result)
	if result == "" {
		result = "{}"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO optimization_runs
	(id, kind, objective, keyword_count, total_cost, total_clicks, total_impr,
	 duration_ms, result_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Kind,
		run.Objective,
		run.KeywordCount,
		run.TotalCost,
		run.TotalClicks,
		run.TotalImpr,
		run.DurationMS,
		result,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	for _, ch := range run.Channels {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO run_channels
		(run_id, channel, budget, status, rank, total_cost, overrun, keywords, downgraded, rejected)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			ch.Channel,
			ch.Budget,
			ch.Status,
			ch.Rank,
			ch.TotalCost,
			ch.Overrun,
			ch.Keywords,
			ch.Downgraded,
			ch.Rejected,
		)
		if err != nil {
			return fmt.Errorf("failed to insert channel %s for run %s: %w", ch.Channel, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run by ID with its result document.
func (s *Storage) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	var result string
	err := s.db.QueryRowContext(ctx, `
	SELECT id, kind, objective, keyword_count, total_cost, total_clicks, total_impr,
	       duration_ms, result_json, created_at
	FROM optimization_runs WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.Kind,
		&run.Objective,
		&run.KeywordCount,
		&run.TotalCost,
		&run.TotalClicks,
		&run.TotalImpr,
		&run.DurationMS,
		&result,
		&run.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	run.Result = []byte(result)

	channels, err := s.channels(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	run.Channels = channels[id]

	return run, nil
}

// ListRuns returns recent runs, newest first.
func (s *Storage) ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error) {
	query := `
	SELECT id, kind, objective, keyword_count, total_cost, total_clicks, total_impr,
	       duration_ms, created_at
	FROM optimization_runs`
	var args []any
	if filters.Kind != "" {
		query += " WHERE kind = ?"
		args = append(args, filters.Kind)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, filters.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	var ids []string
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(
			&run.ID,
			&run.Kind,
			&run.Objective,
			&run.KeywordCount,
			&run.TotalCost,
			&run.TotalClicks,
			&run.TotalImpr,
			&run.DurationMS,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
		ids = append(ids, run.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	channels, err := s.channels(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		run.Channels = channels[run.ID]
	}

	return runs, nil
}

// channels loads channel rows for the given runs, keyed by run ID.
func (s *Storage) channels(ctx context.Context, ids []string) (map[string][]RunChannel, error) {
	out := make(map[string][]RunChannel, len(ids))
	for _, id := range ids {
		rows, err := s.db.QueryContext(ctx, `
		SELECT channel, budget, status, rank, total_cost, overrun, keywords, downgraded, rejected
		FROM run_channels WHERE run_id = ? ORDER BY channel DESC
		`, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load channels for run %s: %w", id, err)
		}

		for rows.Next() {
			var ch RunChannel
			if err := rows.Scan(
				&ch.Channel,
				&ch.Budget,
				&ch.Status,
				&ch.Rank,
				&ch.TotalCost,
				&ch.Overrun,
				&ch.Keywords,
				&ch.Downgraded,
				&ch.Rejected,
			); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan channel: %w", err)
			}
			out[id] = append(out[id], ch)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
