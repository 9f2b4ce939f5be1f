package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/wordfinder/internal/filtering"
	"github.com/stacklok/wordfinder/internal/telemetry"
	"github.com/stacklok/wordfinder/internal/wordlist"
	"github.com/stacklok/wordfinder/internal/wordlist/mocks"
)

var testWords = []string{"CRANE", "TRACE", "GRACE", "PLACE"}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *mocks.MockSource) {
	t.Helper()

	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Words(gomock.Any(), "en", 5).
		DoAndReturn(func(context.Context, string, int) ([]string, error) {
			return append([]string(nil), testWords...), nil
		}).AnyTimes()

	m, err := NewManager(source, opts...)
	require.NoError(t, err)
	return m, source
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("requires a source", func(t *testing.T) {
		t.Parallel()
		_, err := NewManager(nil)
		require.Error(t, err)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		_, err := NewManager(mocks.NewMockSource(ctrl), WithTTL(0))
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		m, err := NewManager(mocks.NewMockSource(ctrl))
		require.NoError(t, err)
		assert.Equal(t, defaultTTL, m.ttl)
		assert.Equal(t, defaultCleanupInterval, m.cleanupInterval)
		assert.Equal(t, defaultMaxSessions, m.maxSessions)
		assert.Equal(t, 0, m.Len())
	})
}

func TestManager_Create(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "en", v.Language)
	assert.Equal(t, 5, v.Length)
	assert.Equal(t, len(testWords), v.Count)
	assert.Empty(t, v.State.Excluded)
	assert.Equal(t, 1, m.Len())

	other, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)
	assert.NotEqual(t, v.ID, other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestManager_CreateSourceError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().Words(gomock.Any(), "xx", 5).Return(nil, wordlist.ErrUnsupportedLanguage)

	m, err := NewManager(source)
	require.NoError(t, err)

	_, err = m.Create(context.Background(), "xx", 5)
	require.ErrorIs(t, err, wordlist.ErrUnsupportedLanguage)
	assert.Equal(t, 0, m.Len())
}

func TestManager_MaxSessions(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t, WithMaxSessions(1))

	_, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	_, err = m.Create(context.Background(), "en", 5)
	require.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 1, m.Len())
}

func TestManager_FilterScenario(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	res, err := m.Exclude(v.ID, "T")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, []string{"CRANE", "GRACE", "PLACE"}, res.Words)

	res, err = m.Include(v.ID, "R")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, []string{"CRANE", "GRACE"}, res.Words)

	res, err = m.Pattern(v.ID, "?RA?E")
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "GRACE"}, res.Words)
	assert.Empty(t, res.Contradictions)

	res, err = m.Exclude(v.ID, "R")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "R", res.Conflict)
	assert.Equal(t, []string{"CRANE", "GRACE"}, res.Words)

	got, err := m.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.State.Excluded)
	assert.Equal(t, "R", got.State.Included)
	assert.Equal(t, "?RA?E", got.State.Pattern)
	assert.Equal(t, 2, got.Count)
}

func TestManager_PatternContradiction(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	_, err = m.Exclude(v.ID, "T")
	require.NoError(t, err)

	res, err := m.Pattern(v.ID, "T????")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "T", res.Contradictions)
	assert.Empty(t, res.Words)
}

func TestManager_PatternUnsatisfiable(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	_, err = m.Include(v.ID, "Z")
	require.NoError(t, err)

	res, err := m.Pattern(v.ID, "CRANE")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Empty(t, res.Contradictions)
	assert.Equal(t, "Z", res.Unsatisfiable)
	assert.Empty(t, res.Words)
}

func TestManager_Length(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	res, err := m.Length(v.ID, 0)
	require.NoError(t, err)
	assert.Len(t, res.Words, len(testWords))

	res, err = m.Length(v.ID, 4)
	require.NoError(t, err)
	assert.Empty(t, res.Words)
	assert.Equal(t, 0, res.State.MatchCount)
}

func TestManager_Apply(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	got, err := m.Apply(v.ID, func(e *filtering.Engine, words []string) ([]string, error) {
		return e.ExcludeLetters(words, "P")
	})
	require.NoError(t, err)
	assert.True(t, got.Applied)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, []string{"CRANE", "TRACE", "GRACE"}, got.Words)
	assert.Equal(t, "P", got.State.Excluded)

	boom := errors.New("boom")
	_, err = m.Apply(v.ID, func(*filtering.Engine, []string) ([]string, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	words, err := m.Words(v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"CRANE", "TRACE", "GRACE"}, words)
}

func TestManager_Reset(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	_, err = m.Exclude(v.ID, "T")
	require.NoError(t, err)
	_, err = m.Include(v.ID, "R")
	require.NoError(t, err)

	got, err := m.Reset(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, len(testWords), got.Count)
	assert.Empty(t, got.State.Excluded)
	assert.Empty(t, got.State.Included)

	// R is no longer included, so excluding it is allowed again
	res, err := m.Exclude(v.ID, "R")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, []string{"PLACE"}, res.Words)
}

func TestManager_UnknownSession(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Exclude("missing", "A")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Reset(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Delete("missing"), ErrSessionNotFound)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	require.NoError(t, m.Delete(v.ID))
	assert.Equal(t, 0, m.Len())
	_, err = m.Get(v.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_StaleSessionAfterDelete(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	// Found before the delete, used after it
	s, err := m.lookup(v.ID)
	require.NoError(t, err)
	require.NoError(t, m.Delete(v.ID))

	called := false
	err = m.use(s, func(*Session) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, called)
}

func TestManager_StaleSessionAfterEviction(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	m, _ := newTestManager(t, WithTTL(time.Minute), WithClock(clock.Now))
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	s, err := m.lookup(v.ID)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	require.Equal(t, 1, m.EvictExpired())

	// Even with a clock that no longer says expired, an evicted session stays gone
	s.mu.Lock()
	s.lastAccess = clock.Now()
	s.mu.Unlock()

	err = m.use(s, func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_EvictExpired(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	reg := prometheus.NewPedanticRegistry()
	metrics := telemetry.NewFilterMetrics(reg)
	m, _ := newTestManager(t,
		WithTTL(time.Minute),
		WithClock(clock.Now),
		WithMetrics(metrics))

	idle, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)
	active, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = m.Get(active.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)

	// idle has expired but is not evicted yet; it must already be invisible
	_, err = m.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, m.EvictExpired())
	assert.Equal(t, 1, m.Len())
	_, err = m.Get(active.ID)
	require.NoError(t, err)

	expected := `
# HELP wordfinder_sessions_evicted_total Number of sessions evicted after their TTL expired
# TYPE wordfinder_sessions_evicted_total counter
wordfinder_sessions_evicted_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"wordfinder_sessions_evicted_total"))
}

func TestManager_StartStop(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	m, _ := newTestManager(t,
		WithTTL(time.Minute),
		WithCleanupInterval(10*time.Millisecond),
		WithClock(clock.Now))

	_, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Start(context.Background())
	}()

	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool {
		return m.Len() == 0
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.cancelFunc != nil
	}, time.Second, time.Millisecond)
	require.NoError(t, m.Stop())
	require.NoError(t, <-errCh)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)
	v, err := m.Create(context.Background(), "en", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, letter := range []string{"T", "G", "P", "T", "G"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Exclude(v.ID, letter)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := m.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "GPT", got.State.Excluded)
	assert.Equal(t, 1, got.Count)
}

func TestManager_CheckReadiness(t *testing.T) {
	t.Parallel()

	t.Run("source without ping is ready", func(t *testing.T) {
		t.Parallel()
		m, _ := newTestManager(t)
		assert.NoError(t, m.CheckReadiness(context.Background()))
	})

	t.Run("missing word file is not ready", func(t *testing.T) {
		t.Parallel()
		m, err := NewManager(wordlist.NewFileSource(t.TempDir() + "/missing.txt"))
		require.NoError(t, err)
		assert.Error(t, m.CheckReadiness(context.Background()))
	})
}
