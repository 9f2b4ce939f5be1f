// Package wordlist loads, normalises and stores the word lists fed to the filter engine.
package wordlist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNoWords is returned when a source has no words for the requested language
	ErrNoWords = errors.New("no words available")
	// ErrUnsupportedLanguage is returned for language codes outside the supported set
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=source.go Source

// Source supplies the initial word collection for a filtering session.
type Source interface {
	// Words returns the normalised words for a language. A length of 0
	// returns words of every length.
	Words(ctx context.Context, language string, length int) ([]string, error)

	// GetSource returns a descriptive string about where the words come from.
	// Examples: "file:/usr/share/dict/words", "postgres:wordfinder"
	GetSource() string
}

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// SupportedLanguages lists the language codes the word store accepts
var SupportedLanguages = []string{"de", "en", "es", "fr", "it", "nl"}

// ValidateLanguage checks that language is one of SupportedLanguages.
// Language codes are only ever used as data, never as identifiers.
func ValidateLanguage(language string) error {
	if !languagePattern.MatchString(language) {
		return fmt.Errorf("%w: %q is not a language code", ErrUnsupportedLanguage, language)
	}
	for _, supported := range SupportedLanguages {
		if language == supported {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, language)
}

// Pinger is implemented by sources that can report whether they are reachable
type Pinger interface {
	Ping(ctx context.Context) error
}
