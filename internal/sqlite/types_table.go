// This file implements the miniature-type registry: creation with seeded
// counters, lookup, listing, and cascading deletion.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dukaforge/paintline/pkg/types"
)

// CreateType registers a new named type. The type row and its five zeroed
// stage counters are written in one transaction; there is no window where
// the type exists without counters. The name is an opaque unique key: a
// losing concurrent creator gets ErrDuplicateName from the UNIQUE
// constraint at commit, never corrupted state.
func (b *Backend) CreateType(name string) (*types.MiniatureType, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}

	id := generateID()
	err := b.writeTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO miniature_types (type_id, name, created_at) VALUES (?, ?, ?)`,
			id, name, formatTime(time.Now()),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %q", types.ErrDuplicateName, name)
			}
			return fmt.Errorf("insert type: %w", err)
		}
		return seedStageCounts(tx, id)
	})
	if err != nil {
		return nil, err
	}

	return &types.MiniatureType{ID: id, Name: name, Counts: types.NewStageCounts()}, nil
}

// GetType returns a type with its current counters, or ErrNotFound.
func (b *Backend) GetType(id string) (*types.MiniatureType, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	var name string
	err = db.QueryRow(`SELECT name FROM miniature_types WHERE type_id = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get type %s: %w", id, err)
	}

	counts, err := readStageCounts(db, id)
	if err != nil {
		return nil, err
	}
	return &types.MiniatureType{ID: id, Name: name, Counts: counts}, nil
}

// ListTypes returns all types with their counters, ordered by (name, id).
// Types are joined with their counters in one query; a type always has all
// five counter rows, so the join never drops one.
func (b *Backend) ListTypes() ([]*types.MiniatureType, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT t.type_id, t.name, c.stage, c.count
		FROM miniature_types t
		JOIN stage_counts c ON c.type_id = t.type_id
		ORDER BY t.name ASC, t.type_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	var result []*types.MiniatureType
	byID := make(map[string]*types.MiniatureType)
	for rows.Next() {
		var id, name, stageToken string
		var count int
		if err := rows.Scan(&id, &name, &stageToken, &count); err != nil {
			return nil, fmt.Errorf("scan type row: %w", err)
		}
		mt, ok := byID[id]
		if !ok {
			mt = &types.MiniatureType{ID: id, Name: name, Counts: types.NewStageCounts()}
			byID[id] = mt
			result = append(result, mt)
		}
		stage, err := types.ParseStage(stageToken)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", id, err)
		}
		mt.Counts[stage] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate types: %w", err)
	}
	return result, nil
}

// DeleteType removes a type together with its stage counters and history
// in the same transaction.
func (b *Backend) DeleteType(id string) error {
	return b.writeTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM history_logs WHERE type_id = ?`, id); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM stage_counts WHERE type_id = ?`, id); err != nil {
			return fmt.Errorf("delete stage counts: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM miniature_types WHERE type_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete type: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", types.ErrNotFound, id)
		}
		return nil
	})
}

// seedStageCounts inserts the five zeroed counter rows for a new type.
func seedStageCounts(tx *sql.Tx, typeID string) error {
	for _, stage := range types.Stages() {
		_, err := tx.Exec(
			`INSERT INTO stage_counts (type_id, stage, count) VALUES (?, ?, 0)`,
			typeID, stage.String(),
		)
		if err != nil {
			return fmt.Errorf("seed counter %s: %w", stage, err)
		}
	}
	return nil
}

// readStageCounts loads the five counters for a type. A missing row means
// the creation invariant was broken upstream and surfaces as the fatal
// ErrUninitializedLedger.
func readStageCounts(q queryRower, typeID string) (types.StageCounts, error) {
	rows, err := q.Query(`SELECT stage, count FROM stage_counts WHERE type_id = ?`, typeID)
	if err != nil {
		return nil, fmt.Errorf("read stage counts: %w", err)
	}
	defer rows.Close()

	counts := make(types.StageCounts, types.StageCount)
	for rows.Next() {
		var stageToken string
		var count int
		if err := rows.Scan(&stageToken, &count); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		stage, err := types.ParseStage(stageToken)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", typeID, err)
		}
		counts[stage] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage counts: %w", err)
	}
	if len(counts) != types.StageCount {
		return nil, fmt.Errorf("%w: type %s has %d of %d counters",
			types.ErrUninitializedLedger, typeID, len(counts), types.StageCount)
	}
	return counts, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the name column. Primary-key collisions are not matched: a duplicate
// type_id means a broken ID generator, not a caller mistake, and must
// surface as an internal error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed: miniature_types.name")
}
