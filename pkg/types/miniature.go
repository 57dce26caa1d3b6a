package types

import (
	"fmt"
	"time"
)

// StageCounts is a snapshot of a type's five counters, keyed by stage.
// Every stage is present; counts are never negative.
type StageCounts map[Stage]int

// NewStageCounts returns a snapshot with all five counters at zero.
func NewStageCounts() StageCounts {
	counts := make(StageCounts, StageCount)
	for _, s := range Stages() {
		counts[s] = 0
	}
	return counts
}

// Total returns the sum of all five counters. Imports merge additively, so
// the total is not conserved across imports; this is a display value only.
func (c StageCounts) Total() int {
	sum := 0
	for _, n := range c {
		sum += n
	}
	return sum
}

// MiniatureType is a named collectible model type tracked through the
// pipeline. Counts holds the per-stage counters as of the read that
// produced the value.
type MiniatureType struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Counts StageCounts `json:"-"`
}

// StageCountRecord is the wire form of a single (stage, count) pair, used
// by export and import payloads.
type StageCountRecord struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// HistoryRecord is the wire form of one history entry.
type HistoryRecord struct {
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"created_at"`
}

// ExportType is the full-state projection of one type: name, absolute
// counts for all five stages in pipeline order, and the complete ungrouped
// history in time order.
type ExportType struct {
	Name        string             `json:"name"`
	StageCounts []StageCountRecord `json:"stage_counts"`
	History     []HistoryRecord    `json:"history"`
}

// ImportItem is one type's worth of import payload: stage-count deltas
// (exactly the five stages, each once, each non-negative) plus history
// entries to append verbatim.
type ImportItem struct {
	Name        string             `json:"name"`
	StageCounts []StageCountRecord `json:"stage_counts"`
	History     []HistoryRecord    `json:"history"`
}

// Validate checks the item's shape before any of it is applied. Every
// violation wraps ErrInvalidImportFormat so the whole batch can be rejected
// with a single boundary code.
func (item ImportItem) Validate() error {
	if item.Name == "" {
		return fmt.Errorf("%w: type name is empty", ErrInvalidImportFormat)
	}
	if len(item.StageCounts) != StageCount {
		return fmt.Errorf("%w: type %q has %d stage counts, want %d",
			ErrInvalidImportFormat, item.Name, len(item.StageCounts), StageCount)
	}
	seen := make(map[Stage]bool, StageCount)
	for _, sc := range item.StageCounts {
		stage, err := ParseStage(sc.Stage)
		if err != nil {
			return fmt.Errorf("%w: type %q: unknown stage %q", ErrInvalidImportFormat, item.Name, sc.Stage)
		}
		if seen[stage] {
			return fmt.Errorf("%w: type %q: duplicate stage %s", ErrInvalidImportFormat, item.Name, stage)
		}
		seen[stage] = true
		if sc.Count < 0 {
			return fmt.Errorf("%w: type %q: negative count for stage %s", ErrInvalidImportFormat, item.Name, stage)
		}
	}
	for i, h := range item.History {
		from, err := ParseStage(h.FromStage)
		if err != nil {
			return fmt.Errorf("%w: type %q: history[%d] unknown from_stage %q",
				ErrInvalidImportFormat, item.Name, i, h.FromStage)
		}
		to, err := ParseStage(h.ToStage)
		if err != nil {
			return fmt.Errorf("%w: type %q: history[%d] unknown to_stage %q",
				ErrInvalidImportFormat, item.Name, i, h.ToStage)
		}
		if from == to {
			return fmt.Errorf("%w: type %q: history[%d] from and to stages are equal",
				ErrInvalidImportFormat, item.Name, i)
		}
		if h.Qty <= 0 {
			return fmt.Errorf("%w: type %q: history[%d] qty must be positive",
				ErrInvalidImportFormat, item.Name, i)
		}
		if h.CreatedAt.IsZero() {
			return fmt.Errorf("%w: type %q: history[%d] missing created_at",
				ErrInvalidImportFormat, item.Name, i)
		}
	}
	return nil
}
