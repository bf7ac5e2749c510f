// Package cache holds the process-wide job snapshot served to readers.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/ShreyaSuvarna1/Veerpath/internal/jobs"
)

// Snapshot is a complete job list and the time it was published.
// Callers must treat Jobs as read-only.
type Snapshot struct {
	Jobs      []jobs.Record
	UpdatedAt time.Time
}

// Cell is a single-writer snapshot holder. Readers never block and always see
// either the previous or the next complete snapshot.
type Cell struct {
	p atomic.Pointer[Snapshot]
}

func New() *Cell {
	return &Cell{}
}

// Load returns the current snapshot. A cell that was never stored returns an
// empty list and a zero timestamp.
func (c *Cell) Load() Snapshot {
	if s := c.p.Load(); s != nil {
		return *s
	}
	return Snapshot{Jobs: []jobs.Record{}}
}

// Store replaces the snapshot wholesale.
func (c *Cell) Store(list []jobs.Record, at time.Time) {
	cp := make([]jobs.Record, len(list))
	copy(cp, list)
	c.p.Store(&Snapshot{Jobs: cp, UpdatedAt: at})
}
