package wordlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lines    []string
		expected []string
	}{
		{
			name:     "upper-cases and trims",
			lines:    []string{"crane", "  Trace ", "GRACE\r"},
			expected: []string{"CRANE", "TRACE", "GRACE"},
		},
		{
			name:     "drops digits punctuation and blanks",
			lines:    []string{"abc1", "don't", "", "co-op", "ok"},
			expected: []string{"OK"},
		},
		{
			name:     "keeps duplicates and order",
			lines:    []string{"b", "a", "b"},
			expected: []string{"B", "A", "B"},
		},
		{
			name:     "drops non ascii letters",
			lines:    []string{"café", "cafe"},
			expected: []string{"CAFE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Normalize(tt.lines))
		})
	}
}

func TestDedupe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"B", "A", "C"}, Dedupe([]string{"B", "A", "B", "C", "A"}))
	assert.Empty(t, Dedupe(nil))
}

func TestReadWords(t *testing.T) {
	t.Parallel()

	words, err := ReadWords(strings.NewReader("crane\nx-ray\nplace\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "PLACE"}, words)
}

func TestLoadAndWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")

	require.NoError(t, WriteFile(path, []string{"CRANE", "PLACE"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CRANE\nPLACE\n", string(data))

	words, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "PLACE"}, words)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadFile("")
	assert.ErrorContains(t, err, "path is required")

	_, err = LoadFile("../outside.txt")
	assert.ErrorContains(t, err, "invalid traversal")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to open word file")
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ncrane\nplace\nsky\n"), 0600))

	source := NewFileSource(path)
	assert.Equal(t, "file:"+path, source.GetSource())

	words, err := source.Words(context.Background(), "en", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "PLACE"}, words)

	words, err = source.Words(context.Background(), "nl", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"CAT", "CRANE", "PLACE", "SKY"}, words)

	_, err = source.Words(context.Background(), "en", 7)
	assert.True(t, errors.Is(err, ErrNoWords))
}

func TestValidateLanguage(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateLanguage("en"))
	assert.NoError(t, ValidateLanguage("nl"))

	for _, lang := range []string{"", "EN", "xx", "en; DROP TABLE words", "english"} {
		err := ValidateLanguage(lang)
		assert.True(t, errors.Is(err, ErrUnsupportedLanguage), "language %q", lang)
	}
}
