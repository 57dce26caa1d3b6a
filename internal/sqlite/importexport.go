// This file implements the all-or-nothing import/merge engine and the
// full-state export projection.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukaforge/paintline/pkg/types"
)

// ImportBatch validates and applies a batch of stage-count deltas and
// history backfills as one unit.
//
// Every item is validated before anything touches the store; a single
// malformed item rejects the whole batch with ErrInvalidImportFormat. The
// accepted batch then runs in one serialized transaction: types are
// resolved by name and created (with zeroed counters) when absent, deltas
// are added on top of the existing counters, and history entries are
// appended verbatim with their caller-supplied timestamps. Nothing is
// deduplicated, so importing the same payload twice doubles both the
// counters it touches and the history. Any failure mid-batch rolls back
// the entire transaction, including earlier items.
func (b *Backend) ImportBatch(items []types.ImportItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return nil
	}

	return b.writeTx(func(tx *sql.Tx) error {
		for _, item := range items {
			typeID, err := resolveOrCreateType(tx, item.Name)
			if err != nil {
				return err
			}

			deltas := types.NewStageCounts()
			for _, sc := range item.StageCounts {
				stage, err := types.ParseStage(sc.Stage)
				if err != nil {
					return fmt.Errorf("%w: %v", types.ErrInvalidImportFormat, err)
				}
				deltas[stage] = sc.Count
			}
			if err := applyDeltasTx(tx, typeID, deltas); err != nil {
				return err
			}

			for _, h := range item.History {
				from, err := types.ParseStage(h.FromStage)
				if err != nil {
					return fmt.Errorf("%w: %v", types.ErrInvalidImportFormat, err)
				}
				to, err := types.ParseStage(h.ToStage)
				if err != nil {
					return fmt.Errorf("%w: %v", types.ErrInvalidImportFormat, err)
				}
				if err := appendHistory(tx, typeID, from, to, h.Qty, h.CreatedAt); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// resolveOrCreateType returns the id of the named type, creating it with
// seeded counters inside the batch transaction when absent.
func resolveOrCreateType(tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT type_id FROM miniature_types WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("resolve type %q: %w", name, err)
	}

	id = generateID()
	_, err = tx.Exec(
		`INSERT INTO miniature_types (type_id, name, created_at) VALUES (?, ?, ?)`,
		id, name, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("create type %q: %w", name, err)
	}
	if err := seedStageCounts(tx, id); err != nil {
		return "", err
	}
	return id, nil
}

// ExportAll projects the full ledger state: every type's name, absolute
// counts for all five stages in pipeline order, and its complete ungrouped
// history in time order. Types are ordered by (name, id). The whole
// projection runs in one read transaction, so the counts and history of
// every type come from the same point in time.
func (b *Backend) ExportAll() ([]types.ExportType, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT type_id, name FROM miniature_types ORDER BY name ASC, type_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("export types: %w", err)
	}
	defer rows.Close()

	type typeRow struct {
		id   string
		name string
	}
	var typeRows []typeRow
	for rows.Next() {
		var tr typeRow
		if err := rows.Scan(&tr.id, &tr.name); err != nil {
			return nil, fmt.Errorf("scan export type: %w", err)
		}
		typeRows = append(typeRows, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export types: %w", err)
	}

	export := make([]types.ExportType, 0, len(typeRows))
	for _, tr := range typeRows {
		counts, err := readStageCounts(tx, tr.id)
		if err != nil {
			return nil, err
		}
		entries, err := readHistory(tx, tr.id)
		if err != nil {
			return nil, err
		}

		et := types.ExportType{
			Name:        tr.name,
			StageCounts: make([]types.StageCountRecord, 0, types.StageCount),
			History:     make([]types.HistoryRecord, 0, len(entries)),
		}
		for _, stage := range types.Stages() {
			et.StageCounts = append(et.StageCounts, types.StageCountRecord{
				Stage: stage.String(),
				Count: counts[stage],
			})
		}
		for _, e := range entries {
			et.History = append(et.History, types.HistoryRecord{
				FromStage: e.From.String(),
				ToStage:   e.To.String(),
				Qty:       e.Qty,
				CreatedAt: e.At,
			})
		}
		export = append(export, et)
	}
	return export, nil
}
