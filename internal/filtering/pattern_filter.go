package filtering

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Wildcard matches any single letter in a pattern
const Wildcard = '?'

// canonicalPattern upper-cases a pattern and maps the accepted wildcard
// aliases '.' and '_' onto Wildcard.
func canonicalPattern(pattern string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '_':
			return Wildcard
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(pattern)))
}

// matchesPattern reports whether word has the same length as pattern and
// agrees with it at every non-wildcard position. pattern must already be canonical.
func matchesPattern(pattern, word string) bool {
	if utf8.RuneCountInString(pattern) != utf8.RuneCountInString(word) {
		return false
	}

	i := 0
	for _, w := range word {
		p, size := utf8.DecodeRuneInString(pattern[i:])
		i += size
		if p != Wildcard && p != w {
			return false
		}
	}
	return true
}

// matchPattern is matchesPattern with a reason, used to explain decisions
func matchPattern(pattern, word string) (bool, string) {
	if utf8.RuneCountInString(pattern) != utf8.RuneCountInString(word) {
		return false, fmt.Sprintf("length %d does not match pattern length %d",
			utf8.RuneCountInString(word), utf8.RuneCountInString(pattern))
	}

	wordRunes := []rune(word)
	for i, p := range []rune(pattern) {
		if p == Wildcard {
			continue
		}
		if wordRunes[i] != p {
			return false, fmt.Sprintf("position %d is '%c', pattern wants '%c'", i+1, wordRunes[i], p)
		}
	}
	return true, fmt.Sprintf("matches pattern '%s'", pattern)
}

// patternLiterals returns the fixed letters of a canonical pattern with their counts
func patternLiterals(pattern string) map[rune]int {
	literals := make(map[rune]int)
	for _, r := range pattern {
		if r != Wildcard {
			literals[r]++
		}
	}
	return literals
}

// unsatisfiable returns the sorted included letters that a canonical pattern
// cannot hold as often as required, counting every wildcard as that letter.
func unsatisfiable(pattern string, included map[rune]int) string {
	literals := patternLiterals(pattern)
	wildcards := strings.Count(pattern, string(Wildcard))

	short := make(map[rune]struct{})
	for r, required := range included {
		if literals[r]+wildcards < required {
			short[r] = struct{}{}
		}
	}
	return sortedLetters(short, once)
}
