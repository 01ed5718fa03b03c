package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ledger"
)

// Store is an in-memory implementation of ledger.Ledger for tests.
type Store struct {
	mu   sync.RWMutex
	runs map[string]ledger.Run
}

// New creates a new in-memory ledger.
func New() *Store {
	return &Store{runs: make(map[string]ledger.Run)}
}

// Close implements ledger.Ledger.
func (s *Store) Close() error { return nil }

// RecordRun inserts or replaces a run, keyed by ID.
func (s *Store) RecordRun(ctx context.Context, r ledger.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run without id: %w", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun implements ledger.Ledger.
func (s *Store) GetRun(ctx context.Context, id string) (ledger.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return ledger.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return copyRun(r), nil
}

// RecentRuns implements ledger.Ledger.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]ledger.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]ledger.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, copyRun(r))
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func copyRun(r ledger.Run) ledger.Run {
	r.Extensions = append([]string(nil), r.Extensions...)
	return r
}
