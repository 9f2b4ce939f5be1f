// Package filtering provides the word filter engine used to narrow a word list
// while solving Wordle-style puzzles.
//
// An Engine accumulates letter constraints across successive calls and applies
// them to whatever word list the caller passes in. Each call returns a freshly
// filtered, order-preserving subsequence of its input.
//
// # Constraints
//
// The engine tracks three kinds of constraints:
//
//   - Excluded letters: a surviving word contains none of them
//   - Included letters: a surviving word contains each of them at least as
//     many times as it was requested ("LL" requires two L's)
//   - Pattern: a fixed-length template where '?' matches any letter
//
// Letter constraints only grow. Excluded and included letters are kept
// disjoint: a request that would add a letter already claimed by the opposite
// set is rejected with a *ConflictError, the constraint set is left untouched
// and the input list is returned as is. The pattern is replaced on every call.
//
// Word length is not engine state. ByLength with 0 disables the filter.
//
// # Usage Example
//
//	engine := filtering.NewEngine()
//	words := []string{"CRANE", "TRACE", "GRACE", "PLACE"}
//
//	words, _ = engine.ExcludeLetters(words, "T")  // CRANE GRACE PLACE
//	words, _ = engine.IncludeLetters(words, "C")  // CRANE GRACE PLACE
//	words, _ = engine.ByPattern(words, "?RAC?")   // GRACE
//
//	if _, err := engine.ExcludeLetters(words, "C"); errors.Is(err, filtering.ErrConstraintConflict) {
//		// C is already required; nothing changed
//	}
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Hosts that share one between
// goroutines must serialize access to it.
package filtering
