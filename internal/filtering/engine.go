package filtering

import (
	"log/slog"
	"strings"
)

// State is a read-only snapshot of an engine's constraint set
type State struct {
	Excluded   string `json:"excluded"`
	Included   string `json:"included"`
	Pattern    string `json:"pattern,omitempty"`
	MatchCount int    `json:"matchCount"`
}

// PatternReport describes how a pattern relates to the letter constraints in
// force when it was applied. It never changes the filtering result.
type PatternReport struct {
	// Pattern is the canonical pattern that was applied
	Pattern string
	// Contradictions are the sorted pattern letters that are currently excluded.
	// A non-empty value means the pattern cannot match any word.
	Contradictions string
	// Unsatisfiable are the sorted included letters the pattern has too few
	// positions for. A non-empty value means the pattern cannot match any word.
	Unsatisfiable string
}

// HasContradictions reports whether the pattern fixes a letter that is excluded
func (r PatternReport) HasContradictions() bool {
	return r.Contradictions != ""
}

// CanMatch reports whether any word could satisfy both the pattern and the
// letter constraints
func (r PatternReport) CanMatch() bool {
	return r.Contradictions == "" && r.Unsatisfiable == ""
}

// Engine accumulates letter and pattern constraints and applies them to word lists
type Engine struct {
	excluded map[rune]struct{}
	// included maps each required letter to its minimum occurrence count
	included map[rune]int

	pattern    string
	hasPattern bool

	matchCount int
}

// NewEngine creates an engine with an empty constraint set
func NewEngine() *Engine {
	return &Engine{
		excluded: make(map[rune]struct{}),
		included: make(map[rune]int),
	}
}

// ExcludeLetters adds letters to the excluded set and returns the words that
// contain none of the excluded letters, including those excluded earlier.
//
// If any requested letter is already included, nothing changes: words is
// returned as is together with a *ConflictError naming the letters.
func (e *Engine) ExcludeLetters(words []string, letters string) ([]string, error) {
	requested := letterCounts(letters)
	if overlap := conflicting(requested, e.included); overlap != "" {
		slog.Debug("Rejected exclude request", "letters", overlap, "reason", "already included")
		return words, &ConflictError{Op: OpExclude, Letters: overlap}
	}

	for r := range requested {
		e.excluded[r] = struct{}{}
	}

	return e.applyLetters(words), nil
}

// IncludeLetters adds letters to the included set and returns the words that
// contain every included letter at least as often as required.
//
// The required count of a letter is the number of times it appears in the
// request that introduced it, so "LL" requires two L's. A later request can
// raise a letter's count but never lower it.
//
// If any requested letter is already excluded, nothing changes: words is
// returned as is together with a *ConflictError naming the letters.
func (e *Engine) IncludeLetters(words []string, letters string) ([]string, error) {
	requested := letterCounts(letters)
	if overlap := conflicting(requested, e.excluded); overlap != "" {
		slog.Debug("Rejected include request", "letters", overlap, "reason", "already excluded")
		return words, &ConflictError{Op: OpInclude, Letters: overlap}
	}

	for r, n := range requested {
		e.included[r] = max(e.included[r], n)
	}

	return e.applyLetters(words), nil
}

// applyLetters filters words against the cumulative letter sets
func (e *Engine) applyLetters(words []string) []string {
	result := make([]string, 0, len(words))
	for _, word := range words {
		if passesLetters(word, e.excluded, e.included) {
			result = append(result, word)
		}
	}

	e.matchCount = len(result)
	return result
}

// ByPattern replaces the pattern constraint and returns the words that match it.
// '?' matches any letter; '.' and '_' are accepted as aliases. Words whose
// length differs from the pattern never match.
//
// The pattern is not rejected when it fixes a letter that is excluded or
// leaves too few positions for an included letter; the report lists such
// letters so callers can explain the empty result.
func (e *Engine) ByPattern(words []string, pattern string) ([]string, PatternReport) {
	canonical := canonicalPattern(pattern)
	e.pattern = canonical
	e.hasPattern = true

	report := PatternReport{
		Pattern:        canonical,
		Contradictions: conflicting(patternLiterals(canonical), e.excluded),
		Unsatisfiable:  unsatisfiable(canonical, e.included),
	}
	if !report.CanMatch() {
		slog.Warn("Pattern cannot match the letter constraints",
			"pattern", canonical,
			"excluded_letters", report.Contradictions,
			"included_letters", report.Unsatisfiable)
	}

	result := make([]string, 0, len(words))
	for _, word := range words {
		if matchesPattern(canonical, word) {
			result = append(result, word)
		}
	}

	e.matchCount = len(result)
	return result, report
}

// ByLength returns the words with exactly n letters. A length of 0 disables
// the filter and returns words unchanged. The engine state is not modified.
func (*Engine) ByLength(words []string, n int) []string {
	if n == 0 {
		return words
	}

	result := make([]string, 0, len(words))
	for _, word := range words {
		if len([]rune(word)) == n {
			result = append(result, word)
		}
	}
	return result
}

// Explain reports whether a word satisfies the current constraint set and why.
// It does not modify the engine. Filtering itself never builds these reasons.
func (e *Engine) Explain(word string) (bool, string) {
	ok, reason := shouldIncludeLetters(word, e.excluded, e.included)
	if !ok {
		return false, "letter filter: " + reason
	}
	if !e.hasPattern {
		return true, reason
	}

	ok, patternReason := matchPattern(e.pattern, word)
	if !ok {
		return false, "pattern filter: " + patternReason
	}
	return true, strings.Join([]string{reason, patternReason}, " AND ")
}

// Excluded returns the excluded letters in alphabetical order
func (e *Engine) Excluded() string {
	return sortedLetters(e.excluded, once)
}

// Included returns the included letters in alphabetical order, each repeated
// by its required count
func (e *Engine) Included() string {
	return sortedLetters(e.included, count)
}

// Pattern returns the current pattern and whether one has been set
func (e *Engine) Pattern() (string, bool) {
	return e.pattern, e.hasPattern
}

// MatchCount returns the result size of the last exclude, include or pattern call
func (e *Engine) MatchCount() int {
	return e.matchCount
}

// Snapshot returns the current constraint set
func (e *Engine) Snapshot() State {
	return State{
		Excluded:   e.Excluded(),
		Included:   e.Included(),
		Pattern:    e.pattern,
		MatchCount: e.matchCount,
	}
}
