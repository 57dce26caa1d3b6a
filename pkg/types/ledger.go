package types

// Ledger defines the backend-agnostic contract for the stage-count ledger.
// Callers attach to a backend, run operations, and detach when done. Every
// mutating operation is atomic: on error the store is unchanged.
type Ledger interface {
	// Attach connects the ledger to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrLedgerDetached.
	Detach() error

	// CreateType registers a new named type and atomically seeds all five
	// stage counters at zero. Returns ErrDuplicateName if the name is
	// taken, including when a concurrent creator won the race.
	CreateType(name string) (*MiniatureType, error)

	// GetType returns a type with its current counters, or ErrNotFound.
	GetType(id string) (*MiniatureType, error)

	// ListTypes returns all types with counters, ordered by (name, id).
	ListTypes() ([]*MiniatureType, error)

	// DeleteType removes a type together with its stage counters and
	// history in one transaction. Returns ErrNotFound if absent.
	DeleteType(id string) error

	// Move transfers qty units from one stage to another and appends
	// exactly one history entry, all in one transaction. It returns the
	// post-move counter snapshot. Fails with ErrInvalidQuantity,
	// ErrInvalidTransition, ErrInsufficientQuantity, or ErrNotFound; on
	// any failure no counter or history changes.
	Move(typeID string, from, to Stage, qty int) (StageCounts, error)

	// History returns the type's full transition log ordered by
	// (timestamp, insertion order), or ErrNotFound.
	History(typeID string) ([]HistoryEntry, error)

	// GroupedHistory returns the type's log compressed into display
	// groups, or ErrNotFound.
	GroupedHistory(typeID string) ([]HistoryGroup, error)

	// ExportAll projects the full ledger state: every type's name,
	// absolute counts, and ungrouped history, ordered by (name, id).
	ExportAll() ([]ExportType, error)

	// ImportBatch validates and applies a batch of additive stage-count
	// deltas and history backfills as one all-or-nothing unit. Any
	// malformed item fails the whole batch with ErrInvalidImportFormat
	// before anything is committed.
	ImportBatch(items []ImportItem) error
}
