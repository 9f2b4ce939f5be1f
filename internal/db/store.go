package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stacklok/wordfinder/internal/db/sqlc"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

// LanguageInfo summarises the words stored for one language
type LanguageInfo struct {
	Language   string     `json:"language"`
	WordCount  int64      `json:"wordCount"`
	Source     string     `json:"source,omitempty"`
	ImportedAt *time.Time `json:"importedAt,omitempty"`
}

// Store reads and writes word lists in PostgreSQL. Every language shares the
// same table and is selected by a bound parameter.
type Store struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	name    string
}

var (
	_ wordlist.Source = (*Store)(nil)
	_ wordlist.Pinger = (*Store)(nil)
)

// NewStore creates a store on top of an existing pool. name identifies the
// database in GetSource.
func NewStore(pool *pgxpool.Pool, name string) *Store {
	return &Store{
		pool:    pool,
		queries: sqlc.New(pool),
		name:    name,
	}
}

// ReplaceWords replaces every word stored for language with words in a
// single transaction. Duplicates are dropped. It returns the number of words stored.
func (s *Store) ReplaceWords(ctx context.Context, language, source string, words []string) (int64, error) {
	if err := wordlist.ValidateLanguage(language); err != nil {
		return 0, err
	}

	unique := wordlist.Dedupe(words)
	params := make([]sqlc.InsertWordsParams, 0, len(unique))
	for _, word := range unique {
		params = append(params, sqlc.InsertWordsParams{
			Language: language,
			Word:     word,
			Length:   int32(len(word)), //nolint:gosec // Words are far shorter than MaxInt32
		})
	}

	var inserted int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		q := s.queries.WithTx(tx)

		deleted, err := q.DeleteWordsByLanguage(ctx, language)
		if err != nil {
			return fmt.Errorf("failed to delete words: %w", err)
		}

		inserted, err = q.InsertWords(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to insert words: %w", err)
		}

		if err := q.UpsertWordImport(ctx, sqlc.UpsertWordImportParams{
			Language:  language,
			Source:    source,
			WordCount: inserted,
		}); err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}

		slog.Info("Replaced words",
			"language", language,
			"deleted", deleted,
			"inserted", inserted,
			"source", source)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// Words implements wordlist.Source. Words come back in alphabetical order.
func (s *Store) Words(ctx context.Context, language string, length int) ([]string, error) {
	if err := wordlist.ValidateLanguage(language); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: invalid length %d", wordlist.ErrNoWords, length)
	}

	words, err := s.queries.ListWords(ctx, sqlc.ListWordsParams{
		Language: language,
		Length:   int32(length), //nolint:gosec // Checked above, lengths are small
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: language %s, length %d", wordlist.ErrNoWords, language, length)
	}
	return words, nil
}

// Languages lists the stored languages with their word counts
func (s *Store) Languages(ctx context.Context) ([]LanguageInfo, error) {
	rows, err := s.queries.ListLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}

	result := make([]LanguageInfo, 0, len(rows))
	for _, row := range rows {
		info := LanguageInfo{
			Language:   row.Language,
			WordCount:  row.WordCount,
			ImportedAt: row.ImportedAt,
		}
		if row.Source != nil {
			info.Source = *row.Source
		}
		result = append(result, info)
	}
	return result, nil
}

// Ping verifies the database connection is still alive
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.pool.Ping(ctx)
}

// GetSource implements wordlist.Source
func (s *Store) GetSource() string {
	return fmt.Sprintf("postgres:%s", s.name)
}
