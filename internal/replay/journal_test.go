package replay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
)

func TestCreateAndReadFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	w, path, err := Create(filepath.Join(dir, "journals"), "merge", now)
	require.NoError(t, err)
	assert.Equal(t, "merge-20260301-123000"+Extension, filepath.Base(path))

	entries := []Entry{
		{Kind: KindSession, Game: "merge", Seed: 42, Started: now},
		{Kind: "spawn", Rank: 2, Label: "grape", X: 300, Y: 50},
		{Kind: "merge", AtMS: 2500, Rank: 3, Label: "dekopon", X: 210.5, Y: 700, Score: 10},
	}
	for _, e := range entries {
		require.NoError(t, w.Write(e))
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Error(t, w.Write(Entry{Kind: "spawn"}))
}

func TestScanStopsOnCallbackError(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.Write(Entry{Kind: "drop", Rank: i}))
	}
	require.NoError(t, w.Close())

	stop := errors.New("stop")
	seen := 0
	err = Scan(&buf, func(e Entry) error {
		seen++
		if e.Rank == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestScanRejectsGarbage(t *testing.T) {
	err := Scan(strings.NewReader("not zstd at all"), func(Entry) error { return nil })
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope"+Extension))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecorderWritesMergeEvents(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	rec := NewRecorder(w, nil)
	rec.BeginSession(7)
	rec.Record(merge.Event{
		Kind:  merge.EventMerge,
		At:    1500 * time.Millisecond,
		Rank:  1,
		Label: "strawberry",
		Pos:   core.V(120, 760),
		Score: 3,
	})
	require.NoError(t, w.Close())

	var got []Entry
	require.NoError(t, Scan(&buf, func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.Len(t, got, 2)

	assert.Equal(t, KindSession, got[0].Kind)
	assert.Equal(t, merge.GameID, got[0].Game)
	assert.Equal(t, int64(7), got[0].Seed)

	assert.Equal(t, Entry{Kind: "merge", AtMS: 1500, Rank: 1, Label: "strawberry", X: 120, Y: 760, Score: 3}, got[1])
}

func TestRecorderDisablesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := NewRecorder(w, nil)
	rec.Record(merge.Event{Kind: merge.EventDrop})
	assert.True(t, rec.failed)
	rec.Record(merge.Event{Kind: merge.EventDrop})
}

func TestRecorderCapturesGameSession(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	merge.SetRecorder(NewRecorder(w, nil))
	t.Cleanup(func() { merge.SetRecorder(nil) })

	g := merge.New()
	g.Reset(core.RuntimeConfig{Seed: 3, ScreenW: 80, ScreenH: 24, TickRate: 60})
	drop := core.NewInputFrame()
	drop.Set(core.ActionDrop)
	g.Step(drop)
	for i := 0; i < 70; i++ {
		g.Step(core.NewInputFrame())
	}
	require.NoError(t, w.Close())

	var kinds []string
	require.NoError(t, Scan(&buf, func(e Entry) error {
		kinds = append(kinds, e.Kind)
		return nil
	}))
	assert.Equal(t, []string{KindSession, "spawn", "drop", "spawn"}, kinds)
}

// readable decodes what has reached buf so far. An unfinished frame ends
// with an error after its complete blocks, so the error is ignored.
func readable(buf *bytes.Buffer) []Entry {
	var got []Entry
	_ = Scan(bytes.NewReader(buf.Bytes()), func(e Entry) error {
		got = append(got, e)
		return nil
	})
	return got
}

func TestWriteBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	require.NoError(t, w.Write(Entry{Kind: "spawn", Rank: 1}))
	require.NoError(t, w.Write(Entry{Kind: "drop", Rank: 1}))
	assert.Empty(t, readable(&buf))

	require.NoError(t, w.Flush())
	assert.Equal(t, []Entry{{Kind: "spawn", Rank: 1}, {Kind: "drop", Rank: 1}}, readable(&buf))

	require.NoError(t, w.Close())
	assert.Error(t, w.Flush())
}

func TestRecorderFlushesOnGameOver(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	rec := NewRecorder(w, nil)
	rec.Record(merge.Event{Kind: merge.EventDrop, Rank: 2})
	assert.Empty(t, readable(&buf))

	rec.Record(merge.Event{Kind: merge.EventGameOver, Rank: 2, Score: 40})
	got := readable(&buf)
	require.Len(t, got, 2)
	assert.Equal(t, string(merge.EventGameOver), got[1].Kind)
	assert.Equal(t, 40, got[1].Score)
}
