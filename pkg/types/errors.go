package types

import "errors"

// Business-rule and lookup errors. These are expected, user-facing, and
// recoverable by the caller adjusting input; the ledger makes no change
// when it returns one.
var (
	ErrNotFound             = errors.New("miniature type not found")
	ErrDuplicateName        = errors.New("miniature type name already exists")
	ErrInvalidStage         = errors.New("unknown stage token")
	ErrInvalidTransition    = errors.New("stage transition must move forward")
	ErrInsufficientQuantity = errors.New("insufficient quantity in source stage")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidName          = errors.New("type name must not be empty")
	ErrInvalidImportFormat  = errors.New("import payload is invalid")
)

// ErrUninitializedLedger signals a type row without all five stage counters.
// The creation path seeds every counter in the same transaction as the type,
// so hitting this means a broken invariant upstream, not bad user input.
// It is never recovered silently.
var ErrUninitializedLedger = errors.New("stage counters missing for type")

// Ledger lifecycle errors.
var (
	ErrLedgerDetached  = errors.New("ledger is detached")
	ErrAlreadyAttached = errors.New("ledger is already attached")
)

// Error codes reported to the API boundary as (code, message) pairs.
const (
	CodeValidation             = "ERR_VALIDATION"
	CodeInvalidStage           = "ERR_INVALID_STAGE"
	CodeInvalidStageTransition = "ERR_INVALID_STAGE_TRANSITION"
	CodeInsufficientQty        = "ERR_INSUFFICIENT_QTY"
	CodeDuplicateTypeName      = "ERR_DUPLICATE_TYPE_NAME"
	CodeInvalidImportFormat    = "ERR_INVALID_IMPORT_FORMAT"
	CodeNotFound               = "ERR_NOT_FOUND"
	CodeInternal               = "ERR_INTERNAL"
)

// ErrorCode maps a ledger error to its boundary code. Unrecognized errors,
// including ErrUninitializedLedger, map to CodeInternal; those signal bugs
// rather than rejectable input.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrDuplicateName):
		return CodeDuplicateTypeName
	case errors.Is(err, ErrInvalidStage):
		return CodeInvalidStage
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidStageTransition
	case errors.Is(err, ErrInsufficientQuantity):
		return CodeInsufficientQty
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidName):
		return CodeValidation
	case errors.Is(err, ErrInvalidImportFormat):
		return CodeInvalidImportFormat
	default:
		return CodeInternal
	}
}
