package testutil

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

// FixedMillis is the FixedClock reading: 9999-01-01 00:00:00 UTC.
const FixedMillis int64 = 253370764800000

// StubClock is a backup.Clock that reads a settable millisecond counter.
// With a step set, every reading moves the counter forward by that step, so
// consecutive runs see distinct archive timestamps and nonzero durations.
type StubClock struct {
	mu   sync.Mutex
	ms   int64
	step time.Duration
}

// NewStubClock creates a StubClock reading ms milliseconds past the epoch.
func NewStubClock(ms int64) *StubClock {
	return &StubClock{ms: ms}
}

// FixedClock returns a StubClock reading FixedMillis.
func FixedClock() *StubClock {
	return NewStubClock(FixedMillis)
}

// WithStep makes every later Now call advance the clock by d.
func (c *StubClock) WithStep(d time.Duration) *StubClock {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
	return c
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.UnixMilli(c.ms).UTC()
	c.ms += c.step.Milliseconds()
	return now
}

// Advance moves the clock forward by d, truncated to milliseconds.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms += d.Milliseconds()
}

// ArchiveName is the archive path a pipeline built now would write into dir.
func (c *StubClock) ArchiveName(dir string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filepath.Join(dir, fmt.Sprintf("Arch%d.tar", c.ms))
}

// RunIDs hands out the given run IDs in order, then "run-N" once they run out.
type RunIDs struct {
	mu  sync.Mutex
	ids []string
	n   int
}

func NewRunIDs(ids ...string) *RunIDs {
	return &RunIDs{ids: ids}
}

func (g *RunIDs) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("run-%d", g.n)
}
