package wordlist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/stacklok/wordfinder/internal/httpclient"
)

const defaultFetchTries = 3

// URLSource serves words from a word list downloaded over HTTP. Like
// FileSource it ignores the language. The list is fetched on first use and
// cached; failed fetches are retried on the next call.
type URLSource struct {
	url    string
	client httpclient.Client

	// initialInterval is the first backoff delay between fetch attempts
	initialInterval time.Duration

	mu    sync.Mutex
	words []string
}

var (
	_ Source = (*URLSource)(nil)
	_ Pinger = (*URLSource)(nil)
)

// NewURLSource creates a source that downloads the word list at url with client
func NewURLSource(url string, client httpclient.Client) *URLSource {
	return &URLSource{
		url:             url,
		client:          client,
		initialInterval: 500 * time.Millisecond,
	}
}

// Words implements Source.Words
func (s *URLSource) Words(ctx context.Context, _ string, length int) ([]string, error) {
	all, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	words := ByLength(all, length)
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s has no words of length %d", ErrNoWords, s.url, length)
	}
	return words, nil
}

// Ping reports whether the word list could be downloaded
func (s *URLSource) Ping(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// GetSource implements Source.GetSource
func (s *URLSource) GetSource() string {
	return fmt.Sprintf("url:%s", s.url)
}

func (s *URLSource) load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.words != nil {
		return s.words, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initialInterval

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		body, err := s.client.Get(ctx, s.url)
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && !httpErr.Temporary() {
			return nil, backoff.Permanent(err)
		}
		return body, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(defaultFetchTries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download word list %s: %w", s.url, err)
	}

	words, err := ReadWords(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s contains no words", ErrNoWords, s.url)
	}

	slog.Info("Downloaded word list", "url", s.url, "word_count", len(words))
	s.words = words
	return words, nil
}
