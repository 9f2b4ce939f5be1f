package session

import "context"

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go Service

// Service is the session API consumed by the HTTP handlers
type Service interface {
	// CheckReadiness reports whether the word source can serve sessions
	CheckReadiness(ctx context.Context) error
	// Create starts a session over the words of language and length
	Create(ctx context.Context, language string, length int) (View, error)
	// Get returns a session's state
	Get(id string) (View, error)
	// Words returns a session's current word list
	Words(id string) ([]string, error)
	// Exclude excludes letters in a session
	Exclude(id, letters string) (Result, error)
	// Include requires letters in a session
	Include(id, letters string) (Result, error)
	// Pattern sets a session's positional pattern
	Pattern(id, pattern string) (Result, error)
	// Length keeps only words of one length in a session
	Length(id string, n int) (Result, error)
	// Reset drops every constraint of a session and reloads its words
	Reset(ctx context.Context, id string) (View, error)
	// Delete discards a session
	Delete(id string) error
	// Search runs a one-shot query on a fresh engine without creating a session
	Search(ctx context.Context, query Query) (Result, error)
}

var _ Service = (*Manager)(nil)
