package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	mu   sync.Mutex
	runs map[string]*Run

	// Hooks for test assertions
	SaveRunCalled bool
	LastSavedRun  *Run

	// Version is returned by SchemaVersion
	Version int64

	// Error injection for testing error paths
	SaveRunErr       error
	GetRunErr        error
	ListRunsErr      error
	SchemaVersionErr error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs: make(map[string]*Run),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SchemaVersion returns Version or SchemaVersionErr.
func (m *MockRepository) SchemaVersion() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SchemaVersionErr != nil {
		return 0, m.SchemaVersionErr
	}
	return m.Version, nil
}

// SaveRun stores a copy of run.
func (m *MockRepository) SaveRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveRunCalled = true
	m.LastSavedRun = run
	if m.SaveRunErr != nil {
		return m.SaveRunErr
	}
	if _, exists := m.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	copied := *run
	copied.Channels = append([]RunChannel(nil), run.Channels...)
	m.runs[run.ID] = &copied
	return nil
}

// GetRun returns a stored run.
func (m *MockRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetRunErr != nil {
		return nil, m.GetRunErr
	}
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	copied := *run
	return &copied, nil
}

// ListRuns returns stored runs newest first, without result documents.
func (m *MockRepository) ListRuns(ctx context.Context, filters RunFilters) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}

	runs := make([]*Run, 0, len(m.runs))
	for _, run := range m.runs {
		if filters.Kind != "" && run.Kind != filters.Kind {
			continue
		}
		copied := *run
		copied.Result = nil
		runs = append(runs, &copied)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.After(runs[j].CreatedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if limit := filters.limit(); len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// RunCount returns the number of stored runs.
func (m *MockRepository) RunCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}
