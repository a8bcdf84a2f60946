package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/journal"
)

func openClockJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "drill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func recordClicks(t *testing.T, j *journal.Journal, clock *ScenarioClock, elements ...string) []journal.Entry {
	t.Helper()
	ctx := context.Background()
	r, err := j.NewRecorder(ctx,
		journal.WithSessionGenerator(NewFixedSessionGenerator("session-a")),
		journal.WithClock(clock))
	require.NoError(t, err)

	entries := make([]journal.Entry, 0, len(elements))
	for _, element := range elements {
		entry, err := r.Record(ctx, drill.DrillEvent{
			DataView:     drill.DataViewRef{Workspace: Workspace},
			DrillContext: drill.DrillContext{Type: drill.VisColumn, Element: element},
		}, false)
		require.NoError(t, err)
		entries = append(entries, entry)
	}
	return entries
}

func seqs(entries []journal.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.Seq
	}
	return out
}

func TestScenarioClock_JournalsSeqFromOne(t *testing.T) {
	j := openClockJournal(t)
	clock := NewScenarioClock()
	assert.Equal(t, int64(0), clock.Current())

	recordClicks(t, j, clock, "bar", "label", "bar")

	entries, err := j.ReadSession(context.Background(), "session-a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, seqs(entries))
	assert.Equal(t, []int64{1, 2, 3}, clock.Issued())
	assert.Equal(t, int64(3), clock.Current())
}

func TestScenarioClock_SharedWithTraceSteps(t *testing.T) {
	j := openClockJournal(t)
	clock := NewScenarioClock()

	// A trace step taken before the click shifts the journaled seq.
	assert.Equal(t, int64(1), clock.Next())
	entries := recordClicks(t, j, clock, "bar")

	assert.Equal(t, []int64{2}, seqs(entries))
	assert.Equal(t, []int64{1, 2}, clock.Issued())
}

func TestScenarioClock_SeededFromLastSeq(t *testing.T) {
	ctx := context.Background()
	j := openClockJournal(t)
	recordClicks(t, j, NewScenarioClock(), "bar", "bar")

	last, err := j.LastSeq(ctx, "session-a")
	require.NoError(t, err)
	resumed := recordClicks(t, j, NewScenarioClockAt(last), "label")
	assert.Equal(t, []int64{3}, seqs(resumed))

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, seqs(entries))
}

func TestScenarioClock_RewindReplaysIdenticalEntries(t *testing.T) {
	ctx := context.Background()
	j := openClockJournal(t)
	clock := NewScenarioClockAt(5)

	first := recordClicks(t, j, clock, "bar", "label")
	clock.Rewind()
	assert.Equal(t, int64(5), clock.Current())
	assert.Empty(t, clock.Issued())
	second := recordClicks(t, j, clock, "bar", "label")

	assert.Equal(t, first, second)
	assert.Equal(t, []int64{6, 7}, seqs(second))

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	assert.Len(t, entries, 2, "replayed entries share ids and are not appended twice")
}

func TestScenarioClock_ConcurrentRecordersGetDistinctSeqs(t *testing.T) {
	clock := NewScenarioClock()
	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				clock.Next()
			}
		}()
	}
	wg.Wait()

	issued := clock.Issued()
	require.Len(t, issued, workers*perWorker)
	seen := make(map[int64]bool, len(issued))
	for _, seq := range issued {
		require.False(t, seen[seq], "duplicate seq %d", seq)
		seen[seq] = true
	}
	assert.Equal(t, int64(workers*perWorker), clock.Current())
}
