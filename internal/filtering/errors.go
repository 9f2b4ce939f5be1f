package filtering

import (
	"errors"
	"fmt"
)

// ErrConstraintConflict is matched by every *ConflictError
var ErrConstraintConflict = errors.New("constraint conflict")

const (
	// OpExclude identifies ExcludeLetters in conflict reports
	OpExclude = "exclude"
	// OpInclude identifies IncludeLetters in conflict reports
	OpInclude = "include"
)

// ConflictError reports letters that could not be added to one letter set
// because the opposite set already holds them.
type ConflictError struct {
	// Op is the rejected operation, OpExclude or OpInclude
	Op string
	// Letters are the offending letters, sorted
	Letters string
}

func (e *ConflictError) Error() string {
	opposite := "included"
	if e.Op == OpInclude {
		opposite = "excluded"
	}
	return fmt.Sprintf("cannot %s letters %s: already %s", e.Op, e.Letters, opposite)
}

// Is makes errors.Is(err, ErrConstraintConflict) true for conflict errors
func (*ConflictError) Is(target error) bool {
	return target == ErrConstraintConflict
}
