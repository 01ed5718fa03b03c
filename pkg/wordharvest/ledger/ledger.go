// Package ledger records a summary of every harvesting session.
package ledger

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Ledger persists run summaries.
type Ledger interface {
	Close() error

	RecordRun(ctx context.Context, r Run) error
	// GetRun returns internalerr.ErrNotFound for an unknown id.
	GetRun(ctx context.Context, id string) (Run, error)
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is the summary of one harvesting session
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Root        string
	Output      string
	Extensions  []string
	MaxTokenLen int
	TableSize   int
	Files       int   // files harvested
	Skipped     int   // files that could not be opened
	Tokens      int64 // tokens scanned, duplicates included
	Emitted     int64 // distinct tokens written
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// IDGenerator mints lexically sortable run IDs.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator backed by crypto/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New returns an ID for a run started at t.
func (g *IDGenerator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}
