package filtering

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// letterCounts upper-cases letters and counts how often each one occurs.
// Whitespace is ignored so "a b" and "AB" are the same request.
func letterCounts(letters string) map[rune]int {
	counts := make(map[rune]int, len(letters))
	for _, r := range strings.ToUpper(letters) {
		if unicode.IsSpace(r) {
			continue
		}
		counts[r]++
	}
	return counts
}

// sortedLetters renders the keys of a letter map in alphabetical order,
// repeating each letter repeat(letter) times.
func sortedLetters[V any](m map[rune]V, repeat func(V) int) string {
	keys := make([]rune, 0, len(m))
	for r := range m {
		keys = append(keys, r)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, r := range keys {
		for range repeat(m[r]) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func once(struct{}) int { return 1 }

func count(n int) int { return n }

// conflicting returns the sorted letters of requested that are already keys of held.
func conflicting[V any](requested map[rune]int, held map[rune]V) string {
	overlap := make(map[rune]struct{})
	for r := range requested {
		if _, ok := held[r]; ok {
			overlap[r] = struct{}{}
		}
	}
	return sortedLetters(overlap, once)
}

// passesLetters reports whether a word satisfies the excluded and included
// letter sets. It is the allocation-free form of shouldIncludeLetters.
func passesLetters(word string, excluded map[rune]struct{}, included map[rune]int) bool {
	if len(excluded) > 0 {
		for _, r := range word {
			if _, ok := excluded[r]; ok {
				return false
			}
		}
	}

	for r, required := range included {
		if strings.Count(word, string(r)) < required {
			return false
		}
	}
	return true
}

// shouldIncludeLetters decides whether a word satisfies the excluded and
// included letter sets and explains why.
//
// Logic:
// 1. If the word contains any excluded letter -> exclude (exclusion is checked first)
// 2. If the word contains some included letter fewer times than required -> exclude
// 3. Otherwise -> include
func shouldIncludeLetters(word string, excluded map[rune]struct{}, included map[rune]int) (bool, string) {
	if len(excluded) > 0 {
		for _, r := range word {
			if _, ok := excluded[r]; ok {
				return false, fmt.Sprintf("contains excluded letter '%c'", r)
			}
		}
	}

	for r, required := range included {
		if got := strings.Count(word, string(r)); got < required {
			return false, fmt.Sprintf("has %d of letter '%c', needs %d", got, r, required)
		}
	}

	if len(excluded) == 0 && len(included) == 0 {
		return true, "no letter filters specified"
	}
	return true, "passed letter filters"
}
