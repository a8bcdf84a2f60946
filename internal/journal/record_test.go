package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drillkit/internal/drill"
	"github.com/roach88/drillkit/internal/model"
	"github.com/roach88/drillkit/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func makeTestEvent(element string) drill.DrillEvent {
	return drill.DrillEvent{
		DataView: drill.DataViewRef{Workspace: testutil.Workspace},
		DrillContext: drill.DrillContext{
			Type:    drill.VisColumn,
			Element: element,
			X:       ptr(1.0),
			Y:       ptr(2.5),
			Intersection: drill.BuildIntersection([]model.MappingHeader{
				testutil.AttributeHeaderItem(),
				testutil.AttributeDescriptor(),
			}),
		},
	}
}

func newTestRecorder(t *testing.T, j *Journal) *Recorder {
	t.Helper()
	r, err := j.NewRecorder(context.Background(),
		WithSessionGenerator(testutil.NewFixedSessionGenerator("session-a")),
		WithClock(testutil.NewScenarioClock()))
	require.NoError(t, err)
	return r
}

func TestRecord_AppendsInSeqOrder(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	r := newTestRecorder(t, j)

	first, err := r.Record(ctx, makeTestEvent("bar"), false)
	require.NoError(t, err)
	second, err := r.Record(ctx, makeTestEvent("label"), true)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(2), second.Seq)

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, []Entry{first, second}, entries)
	assert.Equal(t, "column", entries[0].VisType)
	assert.Equal(t, "bar", entries[0].Element)
	assert.False(t, entries[0].Suppressed)
	assert.True(t, entries[1].Suppressed)
}

func TestRecord_ContentAddressedID(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	r := newTestRecorder(t, j)

	ev := makeTestEvent("bar")
	entry, err := r.Record(ctx, ev, false)
	require.NoError(t, err)

	assert.Equal(t, model.MustDrillEventID("session-a", 1, ev), entry.ID)

	payload, err := model.MarshalCanonical(ev)
	require.NoError(t, err)
	assert.Equal(t, string(payload), entry.Payload)
}

func TestRecord_DuplicateIsIgnored(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	// Two recorders replaying the same session from seq 0 produce the
	// same ids, so the second write is a no-op.
	for i := 0; i < 2; i++ {
		r := newTestRecorder(t, j)
		_, err := r.Record(ctx, makeTestEvent("bar"), false)
		require.NoError(t, err)
	}

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewRecorder_ResumesSession(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "drill.db")

	j, err := Open(path)
	require.NoError(t, err)
	r := newTestRecorder(t, j)
	for i := 0; i < 3; i++ {
		_, err := r.Record(ctx, makeTestEvent("bar"), false)
		require.NoError(t, err)
	}
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	resumed, err := j.NewRecorder(ctx, WithSession("session-a"))
	require.NoError(t, err)
	entry, err := resumed.Record(ctx, makeTestEvent("bar"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.Seq)
}

func TestNewRecorder_DefaultSessionIsUUIDv7(t *testing.T) {
	j := openTestJournal(t)

	r, err := j.NewRecorder(context.Background())
	require.NoError(t, err)

	assert.Len(t, r.Session(), 36)
	assert.Equal(t, byte('7'), r.Session()[14])
}

func TestRecorder_DispatchEvent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	r := newTestRecorder(t, j)

	ev := makeTestEvent("bar")
	dispatched := drill.FireDrillEvent(nil, ev, r)
	assert.True(t, dispatched)

	ignored := r.DispatchEvent(drill.CustomEvent{Type: "click", Detail: ev})
	assert.False(t, ignored)

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NoError(t, r.Err())
}

func TestRecorder_DispatchEventKeepsFirstError(t *testing.T) {
	j := openTestJournal(t)
	r := newTestRecorder(t, j)
	require.NoError(t, j.Close())

	assert.False(t, r.DispatchEvent(drill.NewCustomEvent(makeTestEvent("bar"))))
	first := r.Err()
	require.Error(t, first)

	r.DispatchEvent(drill.NewCustomEvent(makeTestEvent("bar")))
	assert.True(t, errors.Is(r.Err(), first))
}

func TestRecorder_InterceptRecordsSuppressed(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)
	r := newTestRecorder(t, j)

	suppress := r.Intercept(func(drill.DrillEvent) *bool { return drill.Suppress() })
	proceed := r.Intercept(func(drill.DrillEvent) *bool { return drill.Proceed() })

	assert.False(t, drill.FireDrillEvent(suppress, makeTestEvent("bar"), r))
	assert.True(t, drill.FireDrillEvent(proceed, makeTestEvent("label"), r))
	assert.True(t, drill.FireDrillEvent(r.Intercept(nil), makeTestEvent("point"), r))

	entries, err := j.ReadSession(ctx, "session-a")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []bool{true, false, false},
		[]bool{entries[0].Suppressed, entries[1].Suppressed, entries[2].Suppressed})
	assert.Equal(t, []string{"bar", "label", "point"},
		[]string{entries[0].Element, entries[1].Element, entries[2].Element})
}
