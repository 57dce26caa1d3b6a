package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entryAt builds an UNBUILT→ASSEMBLING entry offset from a fixed base time.
func entryAt(offset time.Duration, qty int) HistoryEntry {
	base := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	return HistoryEntry{From: StageUnbuilt, To: StageAssembling, Qty: qty, At: base.Add(offset)}
}

func TestGroupHistoryEmpty(t *testing.T) {
	assert.Empty(t, GroupHistory(nil))
	assert.Empty(t, GroupHistory([]HistoryEntry{}))
}

func TestGroupHistorySingleEntry(t *testing.T) {
	e := entryAt(0, 3)
	groups := GroupHistory([]HistoryEntry{e})

	require.Len(t, groups, 1)
	assert.Equal(t, HistoryGroup{From: e.From, To: e.To, Qty: 3, At: e.At}, groups[0])
}

func TestGroupHistoryWindowBoundary(t *testing.T) {
	// Gaps of 299s and 300s from the previous entry merge; 301s splits.
	entries := []HistoryEntry{
		entryAt(0, 1),
		entryAt(299*time.Second, 2),
		entryAt(599*time.Second, 3), // +300s from the previous entry
		entryAt(900*time.Second, 4), // +301s from the previous entry
	}

	groups := GroupHistory(entries)

	require.Len(t, groups, 2)
	assert.Equal(t, 6, groups[0].Qty)
	assert.Equal(t, entries[0].At, groups[0].At)
	assert.Equal(t, 4, groups[1].Qty)
	assert.Equal(t, entries[3].At, groups[1].At)
}

func TestGroupHistorySlidingWindow(t *testing.T) {
	// Four entries each 299s apart span 897s in total, well past the
	// window, yet every consecutive gap is inside it: one group.
	entries := []HistoryEntry{
		entryAt(0, 1),
		entryAt(299*time.Second, 1),
		entryAt(598*time.Second, 1),
		entryAt(897*time.Second, 1),
	}

	groups := GroupHistory(entries)

	require.Len(t, groups, 1)
	assert.Equal(t, 4, groups[0].Qty)
	assert.Equal(t, entries[0].At, groups[0].At)
}

func TestGroupHistoryZeroGapMerges(t *testing.T) {
	entries := []HistoryEntry{entryAt(0, 2), entryAt(0, 5)}

	groups := GroupHistory(entries)

	require.Len(t, groups, 1)
	assert.Equal(t, 7, groups[0].Qty)
}

func TestGroupHistoryDifferentTransitionSplits(t *testing.T) {
	base := time.Date(2026, 2, 25, 11, 0, 0, 0, time.UTC)
	entries := []HistoryEntry{
		{From: StageUnbuilt, To: StageAssembling, Qty: 2, At: base},
		{From: StageAssembling, To: StagePriming, Qty: 5, At: base.Add(time.Minute)},
		{From: StageUnbuilt, To: StageAssembling, Qty: 3, At: base.Add(2 * time.Minute)},
	}

	groups := GroupHistory(entries)

	// The two UNBUILT→ASSEMBLING entries are separated by a different
	// transition and must not rejoin, even inside the window.
	require.Len(t, groups, 3)
	assert.Equal(t, 2, groups[0].Qty)
	assert.Equal(t, 5, groups[1].Qty)
	assert.Equal(t, 3, groups[2].Qty)
}

func TestGroupHistoryDifferentTransitionSplitsAtZeroGap(t *testing.T) {
	base := time.Date(2026, 2, 25, 11, 0, 0, 0, time.UTC)
	entries := []HistoryEntry{
		{From: StageUnbuilt, To: StageAssembling, Qty: 1, At: base},
		{From: StageAssembling, To: StageFinished, Qty: 1, At: base},
	}

	groups := GroupHistory(entries)
	require.Len(t, groups, 2)
}

func TestGroupHistoryWindowRelativeToPrevNotGroupStart(t *testing.T) {
	// The second entry splits from the first, and the third entry groups
	// with the second even though it is more than a window past the first.
	entries := []HistoryEntry{
		entryAt(0, 1),
		entryAt(301*time.Second, 2),
		entryAt(400*time.Second, 3),
	}

	groups := GroupHistory(entries)

	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].Qty)
	assert.Equal(t, 5, groups[1].Qty)
	assert.Equal(t, entries[1].At, groups[1].At)
}

func TestGroupHistoryDoesNotMutateInput(t *testing.T) {
	entries := []HistoryEntry{entryAt(0, 1), entryAt(10*time.Second, 2)}
	snapshot := make([]HistoryEntry, len(entries))
	copy(snapshot, entries)

	_ = GroupHistory(entries)

	assert.Equal(t, snapshot, entries)
}
