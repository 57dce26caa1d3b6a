// Package types defines the pipeline stage set, entity types, standard
// errors, and configuration for the Paintline ledger.
package types

import "fmt"

// Stage is one of the five fixed pipeline phases a unit passes through.
// The zero value is StageUnbuilt; ordering is by ordinal, never by the
// wire token.
type Stage int

// Pipeline stages in their fixed total order.
const (
	StageUnbuilt Stage = iota
	StageAssembling
	StagePriming
	StagePainting
	StageFinished
)

// StageCount is the number of members in the stage set.
const StageCount = 5

// stageTokens maps each stage ordinal to its wire token.
var stageTokens = [StageCount]string{
	"UNBUILT",
	"ASSEMBLING",
	"PRIMING",
	"PAINTING",
	"FINISHED",
}

// Stages returns all stages in pipeline order. The returned slice is a
// fresh copy; callers may mutate it.
func Stages() []Stage {
	return []Stage{StageUnbuilt, StageAssembling, StagePriming, StagePainting, StageFinished}
}

// Valid reports whether s is a member of the stage set.
func (s Stage) Valid() bool {
	return s >= StageUnbuilt && s <= StageFinished
}

// Index returns the ordinal position of s in the pipeline order.
func (s Stage) Index() int {
	return int(s)
}

// String returns the wire token for s, or a diagnostic placeholder for
// out-of-range values.
func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageTokens[s]
}

// ParseStage resolves a wire token to its stage.
// Returns ErrInvalidStage for any token outside the fixed set; matching is
// exact, no case folding.
func ParseStage(token string) (Stage, error) {
	for i, t := range stageTokens {
		if t == token {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStage, token)
}

// IsForward reports whether a transfer from one stage to another moves
// strictly forward in the pipeline. Skipping intermediate stages is a
// forward move; same-stage and backward are not.
func IsForward(from, to Stage) bool {
	return to.Index() > from.Index()
}
