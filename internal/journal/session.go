package journal

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock is a monotonic logical clock stamping journal entries.
type Clock interface {
	Next() int64
}

// SessionGenerator produces journal session ids.
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SeqClock is an atomic Clock.
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClockAt creates a clock whose first Next returns start+1.
// Used to resume a session from its last recorded seq.
func NewSeqClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
