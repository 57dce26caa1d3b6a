// This file implements the stage ledger: the atomic pairwise transfer and
// the additive delta application used by import.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukaforge/paintline/pkg/types"
)

// Move transfers qty units of a type from one stage to another.
//
// The check-and-write runs inside a single serialized transaction, so a
// transfer can neither observe nor leave a negative counter: concurrent
// single-unit transfers draining a finite source succeed exactly as many
// times as there are units. The two counter rows are read in stage-ordinal
// order regardless of which is the source, keeping the access order
// deterministic for any overlapping pair.
//
// On success exactly one history entry is appended and the post-move
// snapshot of all five counters is returned. On any failure nothing is
// written.
func (b *Backend) Move(typeID string, from, to types.Stage, qty int) (types.StageCounts, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", types.ErrInvalidQuantity, qty)
	}
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("%w: %s -> %s", types.ErrInvalidStage, from, to)
	}
	if !types.IsForward(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", types.ErrInvalidTransition, from, to)
	}

	var snapshot types.StageCounts
	err := b.writeTx(func(tx *sql.Tx) error {
		if err := typeExists(tx, typeID); err != nil {
			return err
		}

		lo, hi := from, to
		if hi.Index() < lo.Index() {
			lo, hi = hi, lo
		}
		loCount, err := readCounter(tx, typeID, lo)
		if err != nil {
			return err
		}
		hiCount, err := readCounter(tx, typeID, hi)
		if err != nil {
			return err
		}

		sourceCount := loCount
		if from == hi {
			sourceCount = hiCount
		}
		if sourceCount < qty {
			return fmt.Errorf("%w: stage %s has %d, need %d",
				types.ErrInsufficientQuantity, from, sourceCount, qty)
		}

		if err := addToCounter(tx, typeID, from, -qty); err != nil {
			return err
		}
		if err := addToCounter(tx, typeID, to, qty); err != nil {
			return err
		}
		if err := appendHistory(tx, typeID, from, to, qty, time.Now()); err != nil {
			return err
		}

		snapshot, err = readStageCounts(tx, typeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ApplyDeltas adds non-negative deltas to every counter of a type inside
// one serialized transaction. Import uses it per item; it is also the
// repair-free path that surfaces ErrUninitializedLedger when a counter row
// is missing, which the creation invariant makes unreachable.
func (b *Backend) ApplyDeltas(typeID string, deltas types.StageCounts) error {
	return b.writeTx(func(tx *sql.Tx) error {
		return applyDeltasTx(tx, typeID, deltas)
	})
}

// applyDeltasTx is the transaction-scoped body of ApplyDeltas, shared with
// the import engine so a whole batch stays in one transaction.
func applyDeltasTx(tx *sql.Tx, typeID string, deltas types.StageCounts) error {
	// Touch all five rows up front so a missing counter fails fatally
	// before any delta lands.
	if _, err := readStageCounts(tx, typeID); err != nil {
		return err
	}
	for _, stage := range types.Stages() {
		delta := deltas[stage]
		if delta == 0 {
			continue
		}
		if delta < 0 {
			return fmt.Errorf("%w: negative delta %d for stage %s",
				types.ErrInvalidImportFormat, delta, stage)
		}
		if err := addToCounter(tx, typeID, stage, delta); err != nil {
			return err
		}
	}
	return nil
}

// typeExists verifies the type row exists.
func typeExists(q rowQuerier, typeID string) error {
	var one int
	err := q.QueryRow(`SELECT 1 FROM miniature_types WHERE type_id = ?`, typeID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", types.ErrNotFound, typeID)
	}
	if err != nil {
		return fmt.Errorf("check type %s: %w", typeID, err)
	}
	return nil
}

// readCounter reads one counter row inside the transaction. A missing row
// breaks the creation invariant and is fatal.
func readCounter(tx *sql.Tx, typeID string, stage types.Stage) (int, error) {
	var count int
	err := tx.QueryRow(
		`SELECT count FROM stage_counts WHERE type_id = ? AND stage = ?`,
		typeID, stage.String(),
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: type %s stage %s", types.ErrUninitializedLedger, typeID, stage)
	}
	if err != nil {
		return 0, fmt.Errorf("read counter %s/%s: %w", typeID, stage, err)
	}
	return count, nil
}

// addToCounter applies a signed delta to one counter row. The CHECK
// constraint backs up the in-transaction precondition against negatives.
func addToCounter(tx *sql.Tx, typeID string, stage types.Stage, delta int) error {
	res, err := tx.Exec(
		`UPDATE stage_counts SET count = count + ? WHERE type_id = ? AND stage = ?`,
		delta, typeID, stage.String(),
	)
	if err != nil {
		return fmt.Errorf("update counter %s/%s: %w", typeID, stage, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: type %s stage %s", types.ErrUninitializedLedger, typeID, stage)
	}
	return nil
}
