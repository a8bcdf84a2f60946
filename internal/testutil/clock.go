package testutil

import "sync"

// ScenarioClock is a journal.Clock shared by the trace and the journal of a
// scenario run, so trace steps and journaled drill events interleave on one
// seq line.
//
// It can be seeded with the last seq of an existing session, mirroring
// journal.NewSeqClockAt, and rewound to that seed so a rerun of the same
// scenario journals identical seq values and ids.
type ScenarioClock struct {
	mu     sync.Mutex
	seed   int64
	seq    int64
	issued []int64
}

// NewScenarioClock returns a clock whose first Next is 1.
func NewScenarioClock() *ScenarioClock {
	return NewScenarioClockAt(0)
}

// NewScenarioClockAt returns a clock whose first Next is last+1.
func NewScenarioClockAt(last int64) *ScenarioClock {
	return &ScenarioClock{seed: last, seq: last}
}

// Next hands out the next seq.
func (c *ScenarioClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.issued = append(c.issued, c.seq)
	return c.seq
}

// Current returns the last seq handed out, or the seed.
func (c *ScenarioClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Issued returns the seqs handed out since the seed, in order.
func (c *ScenarioClock) Issued() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.issued))
	copy(out, c.issued)
	return out
}

// Rewind returns the clock to its seed.
func (c *ScenarioClock) Rewind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = c.seed
	c.issued = nil
}
