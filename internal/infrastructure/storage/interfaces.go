package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the complete storage interface.
// Implementations: Storage (SQLite) and MockRepository (in-memory).
type Repository interface {
	RunRepository

	// SchemaVersion reports the applied migration version
	SchemaVersion() (int64, error)

	Close() error
}

// RunRepository persists optimization runs.
type RunRepository interface {
	// SaveRun stores a finished run and its channel summaries
	SaveRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run, including its stored result document
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns recent runs, newest first, without result documents
	ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error)
}

// RunFilters defines filters for listing runs
type RunFilters struct {
	Kind  string // "greedy", "uniform" or "analyze" (empty = all)
	Limit int    // Max results (0 = default 20)
}

// DefaultRunLimit is used when RunFilters.Limit is zero.
const DefaultRunLimit = 20

// MaxRunLimit caps RunFilters.Limit.
const MaxRunLimit = 200

func (f RunFilters) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultRunLimit
	case f.Limit > MaxRunLimit:
		return MaxRunLimit
	}
	return f.Limit
}
