package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/gomega"
)

// SessionResponse is the subset of a session view the tests read
type SessionResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
	State struct {
		Excluded string `json:"excluded"`
		Included string `json:"included"`
		Pattern  string `json:"pattern"`
	} `json:"state"`
	Applied        *bool    `json:"applied,omitempty"`
	Contradictions string   `json:"contradictions,omitempty"`
	Words          []string `json:"words,omitempty"`
}

// CreateTestWords returns the word list the suite filters
func CreateTestWords() []string {
	return []string{"crane", "trace", "grace", "place", "hello", "help", "hall", "apple"}
}

// WriteWordFile writes words to dir/words.txt, one per line
func WriteWordFile(dir string, words []string) string {
	path := filepath.Join(dir, "words.txt")
	err := os.WriteFile(path, []byte(strings.Join(words, "\n")+"\n"), 0600)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return path
}

// WriteConfigYAML writes a configuration reading words from wordFile
func WriteConfigYAML(dir, wordFile string, maxSessions int) string {
	configContent := fmt.Sprintf(`language: en
wordLength: 5

wordlist:
  path: %s

sessions:
  ttl: 5m
  cleanupInterval: 1m
  maxSessions: %d
`, wordFile, maxSessions)

	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(configContent), 0600)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return path
}
