package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// validWord matches tokens made of ASCII letters only
var validWord = regexp.MustCompile(`^[a-zA-Z]+$`)

// Normalize trims each line, drops anything that is not made of letters only
// and upper-cases the rest. Order and duplicates are preserved.
func Normalize(lines []string) []string {
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		token := strings.TrimSpace(line)
		if validWord.MatchString(token) {
			words = append(words, strings.ToUpper(token))
		}
	}
	return words
}

// Dedupe removes repeated words, keeping the first occurrence of each
func Dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, word := range words {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		result = append(result, word)
	}
	return result
}

// ReadWords reads one token per line from r and normalises them
func ReadWords(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words: %w", err)
	}
	return Normalize(lines), nil
}

// LoadFile reads and normalises the word file at path
func LoadFile(path string) ([]string, error) {
	cleanPath, err := cleanFilePath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file: %w", err)
	}
	defer f.Close()

	return ReadWords(f)
}

// WriteFile saves words to path, one per line
func WriteFile(path string, words []string) error {
	cleanPath, err := cleanFilePath(path)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, word := range words {
		b.WriteString(word)
		b.WriteByte('\n')
	}

	//nolint:gosec // Word lists are not sensitive
	if err := os.WriteFile(cleanPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write word file: %w", err)
	}
	return nil
}

// cleanFilePath rejects empty paths and relative paths that escape the working directory
func cleanFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is required")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) && !filepath.IsLocal(cleanPath) {
		return "", fmt.Errorf("path is not local or contains invalid traversal: %s", path)
	}
	return cleanPath, nil
}
