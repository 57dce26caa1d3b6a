// Package sqlite implements the SQLite storage backend for the Paintline
// stage-count ledger.
package sqlite

// Schema DDL. The CHECK constraints mirror the ledger invariants so that a
// bug in the Go layer cannot persist a negative counter, an unknown stage,
// or a non-positive history quantity.
const (
	createMiniatureTypes = `CREATE TABLE miniature_types (
    type_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL,
    CONSTRAINT uq_miniature_types_name UNIQUE (name)
);`

	createStageCounts = `CREATE TABLE stage_counts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_id TEXT NOT NULL,
    stage TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    CONSTRAINT uq_stage_counts_type_stage UNIQUE (type_id, stage),
    CONSTRAINT ck_stage_counts_count_non_negative CHECK (count >= 0),
    CONSTRAINT ck_stage_counts_stage_valid CHECK (
        stage IN ('UNBUILT', 'ASSEMBLING', 'PRIMING', 'PAINTING', 'FINISHED')
    ),
    FOREIGN KEY (type_id) REFERENCES miniature_types(type_id)
);`

	createHistoryLogs = `CREATE TABLE history_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_id TEXT NOT NULL,
    from_stage TEXT NOT NULL,
    to_stage TEXT NOT NULL,
    qty INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    CONSTRAINT ck_history_logs_from_stage_valid CHECK (
        from_stage IN ('UNBUILT', 'ASSEMBLING', 'PRIMING', 'PAINTING', 'FINISHED')
    ),
    CONSTRAINT ck_history_logs_to_stage_valid CHECK (
        to_stage IN ('UNBUILT', 'ASSEMBLING', 'PRIMING', 'PAINTING', 'FINISHED')
    ),
    CONSTRAINT ck_history_logs_qty_positive CHECK (qty > 0),
    FOREIGN KEY (type_id) REFERENCES miniature_types(type_id)
);`
)

// Index DDL. The history index serves the (type, time) read path used by
// both the grouped history view and export.
const (
	idxStageCountsType = `CREATE INDEX idx_stage_counts_type ON stage_counts(type_id);`
	idxHistoryTypeTime = `CREATE INDEX idx_history_logs_type_created ON history_logs(type_id, created_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createMiniatureTypes,
	createStageCounts,
	createHistoryLogs,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxStageCountsType,
	idxHistoryTypeTime,
}
