package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/wordfinder/internal/filtering"
	"github.com/stacklok/wordfinder/internal/otel"
	"github.com/stacklok/wordfinder/internal/telemetry"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

const (
	defaultTTL             = 30 * time.Minute
	defaultCleanupInterval = time.Minute
	defaultMaxSessions     = 10000
)

// tracerName is the instrumentation name of session spans
const tracerName = "github.com/stacklok/wordfinder/session"

const (
	opPattern = "pattern"
	opLength  = "length"
	opSearch  = "search"
)

// Manager keeps one Session per id and evicts idle ones on a timer
type Manager struct {
	mu       sync.RWMutex // Protects sessions
	sessions map[string]*Session

	source wordlist.Source

	ttl             time.Duration
	cleanupInterval time.Duration
	maxSessions     int
	now             func() time.Time
	metrics         *telemetry.FilterMetrics
	tracer          trace.Tracer

	// Lifecycle management
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithTTL sets how long an idle session is kept
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired sessions are evicted
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.cleanupInterval = interval
	}
}

// WithMaxSessions caps the number of live sessions
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

// WithMetrics sets the metrics the manager reports to
func WithMetrics(metrics *telemetry.FilterMetrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithTracerProvider traces word loading and searches with tp
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		if tp != nil {
			m.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager that loads words from source
func NewManager(source wordlist.Source, opts ...Option) (*Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("word source is required")
	}

	m := &Manager{
		sessions:        make(map[string]*Session),
		source:          source,
		ttl:             defaultTTL,
		cleanupInterval: defaultCleanupInterval,
		maxSessions:     defaultMaxSessions,
		now:             time.Now,
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.ttl <= 0 || m.cleanupInterval <= 0 {
		return nil, fmt.Errorf("session ttl and cleanup interval must be positive")
	}

	return m, nil
}

// Source returns the word source sessions are loaded from
func (m *Manager) Source() wordlist.Source {
	return m.source
}

// CheckReadiness reports whether the word source can serve sessions
func (m *Manager) CheckReadiness(ctx context.Context) error {
	if pinger, ok := m.source.(wordlist.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("word source %s is not ready: %w", m.source.GetSource(), err)
		}
	}
	return nil
}

// Create loads the words for language and length and starts a new session
func (m *Manager) Create(ctx context.Context, language string, length int) (View, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "session.Create",
		trace.WithAttributes(
			otel.AttrLanguage.String(language),
			otel.AttrWordLength.Int(length),
		),
	)
	defer span.End()

	if m.Len() >= m.maxSessions {
		otel.RecordError(span, ErrTooManySessions)
		return View{}, ErrTooManySessions
	}

	words, err := m.source.Words(ctx, language, length)
	if err != nil {
		otel.RecordError(span, err)
		return View{}, fmt.Errorf("failed to load words: %w", err)
	}

	now := m.now()
	s := &Session{
		id:         uuid.NewString(),
		language:   language,
		length:     length,
		engine:     filtering.NewEngine(),
		words:      words,
		createdAt:  now,
		lastAccess: now,
	}

	m.mu.Lock()
	if len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		otel.RecordError(span, ErrTooManySessions)
		return View{}, ErrTooManySessions
	}
	m.sessions[s.id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	span.SetAttributes(otel.AttrSessionID.String(s.id))
	otel.RecordResult(span, len(words))
	m.metrics.SetActiveSessions(count)
	slog.Info("Created session",
		"session", s.id,
		"language", language,
		"length", length,
		"word_count", len(words))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

// Get returns the state of a session
func (m *Manager) Get(id string) (View, error) {
	var v View
	err := m.withSession(id, func(s *Session) error {
		v = s.view()
		return nil
	})
	return v, err
}

// Words returns a copy of the session's current word list
func (m *Manager) Words(id string) ([]string, error) {
	var words []string
	err := m.withSession(id, func(s *Session) error {
		words = slices.Clone(s.words)
		return nil
	})
	return words, err
}

// Apply runs fn against the session's engine and words while holding the
// session lock. The words fn returns replace the session's list unless fn
// returns an error.
func (m *Manager) Apply(id string, fn func(*filtering.Engine, []string) ([]string, error)) (Result, error) {
	var result Result
	err := m.withSession(id, func(s *Session) error {
		words, err := fn(s.engine, slices.Clone(s.words))
		if err != nil {
			return err
		}
		s.words = words
		result = Result{
			View:    s.view(),
			Applied: true,
			Words:   slices.Clone(words),
		}
		return nil
	})
	return result, err
}

// Exclude applies an exclude request to the session. A conflict is reported
// in the result, not as an error.
func (m *Manager) Exclude(id, letters string) (Result, error) {
	return m.applyLetters(id, filtering.OpExclude, letters, (*filtering.Engine).ExcludeLetters)
}

// Include applies an include request to the session. A conflict is reported
// in the result, not as an error.
func (m *Manager) Include(id, letters string) (Result, error) {
	return m.applyLetters(id, filtering.OpInclude, letters, (*filtering.Engine).IncludeLetters)
}

func (m *Manager) applyLetters(
	id, op, letters string,
	apply func(*filtering.Engine, []string, string) ([]string, error),
) (Result, error) {
	var result Result
	err := m.withSession(id, func(s *Session) error {
		words, err := apply(s.engine, s.words, letters)

		var conflict *filtering.ConflictError
		switch {
		case errors.As(err, &conflict):
			result.Conflict = conflict.Letters
			m.metrics.RecordOperation(op, telemetry.OutcomeConflict, len(s.words))
			slog.Info("Rejected conflicting request",
				"session", s.id,
				"operation", op,
				"letters", conflict.Letters)
		case err != nil:
			return err
		default:
			s.words = words
			result.Applied = true
			m.metrics.RecordOperation(op, telemetry.OutcomeApplied, len(words))
		}

		result.View = s.view()
		result.Words = slices.Clone(s.words)
		return nil
	})
	return result, err
}

// Pattern replaces the session's pattern and filters its words
func (m *Manager) Pattern(id, pattern string) (Result, error) {
	var result Result
	err := m.withSession(id, func(s *Session) error {
		words, report := s.engine.ByPattern(s.words, pattern)
		s.words = words

		outcome := telemetry.OutcomeApplied
		if !report.CanMatch() {
			outcome = telemetry.OutcomeContradiction
		}
		m.metrics.RecordOperation(opPattern, outcome, len(words))

		result = Result{
			View:           s.view(),
			Applied:        true,
			Contradictions: report.Contradictions,
			Unsatisfiable:  report.Unsatisfiable,
			Words:          slices.Clone(words),
		}
		return nil
	})
	return result, err
}

// Length keeps only the session's words of exactly n letters; 0 keeps all
func (m *Manager) Length(id string, n int) (Result, error) {
	return m.Apply(id, func(e *filtering.Engine, words []string) ([]string, error) {
		words = e.ByLength(words, n)
		m.metrics.RecordOperation(opLength, telemetry.OutcomeApplied, len(words))
		return words, nil
	})
}

// Reset reloads the session's original word list and replaces its engine
// with a fresh one, dropping every constraint
func (m *Manager) Reset(ctx context.Context, id string) (View, error) {
	ctx, span := otel.StartSpan(ctx, m.tracer, "session.Reset",
		trace.WithAttributes(otel.AttrSessionID.String(id)),
	)
	defer span.End()

	var language string
	var length int
	err := m.withSession(id, func(s *Session) error {
		language, length = s.language, s.length
		return nil
	})
	if err != nil {
		otel.RecordError(span, err)
		return View{}, err
	}

	words, err := m.source.Words(ctx, language, length)
	if err != nil {
		otel.RecordError(span, err)
		return View{}, fmt.Errorf("failed to reload words: %w", err)
	}
	otel.RecordResult(span, len(words))

	s, err := m.lookup(id)
	if err != nil {
		otel.RecordError(span, err)
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(m.now(), m.ttl) {
		otel.RecordError(span, ErrSessionNotFound)
		return View{}, ErrSessionNotFound
	}
	s.engine = filtering.NewEngine()
	s.words = words
	s.lastAccess = m.now()

	slog.Info("Reset session", "session", s.id, "word_count", len(words))
	return s.view(), nil
}

// Delete discards a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	count := len(m.sessions)
	s.mu.Lock()
	s.removed = true
	s.mu.Unlock()
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	slog.Info("Deleted session", "session", id)
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// lookup returns the session stored under id. Callers must check that it is
// still live once they hold its lock.
func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// withSession runs fn with the session locked and marks it as used
func (m *Manager) withSession(id string, fn func(*Session) error) error {
	s, err := m.lookup(id)
	if err != nil {
		return err
	}
	return m.use(s, fn)
}

// use runs fn on a session found earlier. A session deleted, evicted or
// expired since then is treated as missing.
func (m *Manager) use(s *Session, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := m.now()
	if !s.live(now, m.ttl) {
		return ErrSessionNotFound
	}
	s.lastAccess = now
	return fn(s)
}

// EvictExpired removes every session idle for longer than the TTL and
// returns how many were removed
func (m *Manager) EvictExpired() int {
	now := m.now()

	m.mu.Lock()
	evicted := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		expired := s.expired(now, m.ttl)
		if expired {
			s.removed = true
		}
		s.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			evicted++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	m.metrics.RecordEvictions(evicted)
	if evicted > 0 {
		slog.Info("Evicted expired sessions", "evicted", evicted, "remaining", count)
	}
	return evicted
}

// Start runs the eviction loop until ctx is cancelled or Stop is called
func (m *Manager) Start(ctx context.Context) error {
	slog.Info("Starting session janitor",
		"ttl", m.ttl,
		"cleanup_interval", m.cleanupInterval)

	janitorCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancelFunc = cancel
	m.mu.Unlock()
	defer func() {
		close(m.done)
		slog.Info("Session janitor shutting down")
	}()

	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.EvictExpired()
		case <-janitorCtx.Done():
			return nil
		}
	}
}

// Stop stops the eviction loop and waits for it to exit
func (m *Manager) Stop() error {
	m.mu.RLock()
	cancel := m.cancelFunc
	m.mu.RUnlock()

	if cancel != nil {
		slog.Info("Stopping session janitor")
		cancel()
		<-m.done
	}
	return nil
}
