package types

import "time"

// GroupingWindow is the maximum gap between two consecutive same-transition
// entries for them to share a display group. The boundary is inclusive: a
// gap of exactly 300s merges, 301s does not.
const GroupingWindow = 300 * time.Second

// HistoryEntry is one accepted transfer or one imported historical fact.
// Entries are append-only and ordered by (At, insertion order).
type HistoryEntry struct {
	From Stage
	To   Stage
	Qty  int
	At   time.Time
}

// HistoryGroup is a display-level aggregation of consecutive same-transition
// entries. At is the timestamp of the group's first entry.
type HistoryGroup struct {
	From Stage
	To   Stage
	Qty  int
	At   time.Time
}

// GroupHistory compresses an ordered history into display groups in a single
// left-to-right pass. An entry merges into the running group when it repeats
// the immediately preceding entry's transition within GroupingWindow of that
// entry; anything else closes the group. The window slides with the latest
// entry rather than the group's start, so a chain of entries each within the
// window merges even when the total span exceeds it. A different transition
// always splits, even at a zero gap.
//
// Pure function of its input; the entries slice is not modified.
func GroupHistory(entries []HistoryEntry) []HistoryGroup {
	if len(entries) == 0 {
		return nil
	}

	groups := make([]HistoryGroup, 0, len(entries))
	first := entries[0]
	current := HistoryGroup(first)
	prev := first

	for _, e := range entries[1:] {
		gap := e.At.Sub(prev.At)
		if e.From == prev.From && e.To == prev.To && gap >= 0 && gap <= GroupingWindow {
			current.Qty += e.Qty
		} else {
			groups = append(groups, current)
			current = HistoryGroup(e)
		}
		prev = e
	}

	return append(groups, current)
}
