// This file implements the append-only transition log and its read paths.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukaforge/paintline/pkg/types"
)

// appendHistory inserts one transition record inside the caller's
// transaction. The log is append-only; nothing ever updates or deletes
// individual entries.
func appendHistory(tx *sql.Tx, typeID string, from, to types.Stage, qty int, at time.Time) error {
	_, err := tx.Exec(
		`INSERT INTO history_logs (type_id, from_stage, to_stage, qty, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		typeID, from.String(), to.String(), qty, formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("append history %s: %w", typeID, err)
	}
	return nil
}

// History returns the type's full transition log ordered by timestamp
// ascending, with the autoincrement id as a deterministic tiebreak for
// equal timestamps.
func (b *Backend) History(typeID string) ([]types.HistoryEntry, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := typeExists(db, typeID); err != nil {
		return nil, err
	}
	return readHistory(db, typeID)
}

// GroupedHistory returns the transition log compressed into display groups.
func (b *Backend) GroupedHistory(typeID string) ([]types.HistoryGroup, error) {
	entries, err := b.History(typeID)
	if err != nil {
		return nil, err
	}
	return types.GroupHistory(entries), nil
}

// readHistory loads the ordered log for one type.
func readHistory(q queryRower, typeID string) ([]types.HistoryEntry, error) {
	rows, err := q.Query(
		`SELECT from_stage, to_stage, qty, created_at
		 FROM history_logs
		 WHERE type_id = ?
		 ORDER BY created_at ASC, id ASC`,
		typeID,
	)
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", typeID, err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var fromToken, toToken, createdAt string
		var qty int
		if err := rows.Scan(&fromToken, &toToken, &qty, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		from, err := types.ParseStage(fromToken)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", typeID, err)
		}
		to, err := types.ParseStage(toToken)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", typeID, err)
		}
		at, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", typeID, err)
		}
		entries = append(entries, types.HistoryEntry{From: from, To: to, Qty: qty, At: at})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history %s: %w", typeID, err)
	}
	return entries, nil
}
