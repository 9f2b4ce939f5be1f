package wordlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// FileSource serves words from a single word file regardless of language.
// The file is read once and cached.
type FileSource struct {
	path string

	once  sync.Once
	words []string
	err   error
}

var (
	_ Source = (*FileSource)(nil)
	_ Pinger = (*FileSource)(nil)
)

// NewFileSource creates a source backed by the word file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Words implements Source.Words. The language is ignored because a file holds one list.
func (s *FileSource) Words(_ context.Context, _ string, length int) ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	words := ByLength(s.words, length)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s has no words of length %d", ErrNoWords, s.path, length)
	}
	return words, nil
}

// Ping reports whether the word file could be loaded
func (s *FileSource) Ping(_ context.Context) error {
	return s.load()
}

func (s *FileSource) load() error {
	s.once.Do(func() {
		s.words, s.err = LoadFile(s.path)
		if s.err == nil {
			slog.Info("Loaded word file", "path", s.path, "word_count", len(s.words))
		}
	})
	return s.err
}

// GetSource implements Source.GetSource
func (s *FileSource) GetSource() string {
	return fmt.Sprintf("file:%s", s.path)
}

// ByLength returns a copy of the words with exactly length letters, or all
// of them when length is 0
func ByLength(words []string, length int) []string {
	result := make([]string, 0, len(words))
	for _, word := range words {
		if length == 0 || len(word) == length {
			result = append(result, word)
		}
	}
	return result
}
