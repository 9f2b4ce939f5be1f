package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/wordfinder/internal/httpclient"
)

// newTestServer creates a test server with keep-alives disabled so parallel
// tests do not share connections.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, httpclient.UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("crane\ntrace\n"))
	}))
	defer server.Close()

	body, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "crane\ntrace\n", string(body))
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		temporary bool
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden},
		{name: "too many requests", status: http.StatusTooManyRequests, temporary: true},
		{name: "server error", status: http.StatusBadGateway, temporary: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
			var httpErr *httpclient.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, server.URL, httpErr.URL)
			assert.Equal(t, tt.temporary, httpErr.Temporary())
			assert.Contains(t, err.Error(), "HTTP")
		})
	}
}

func TestDefaultClient_Get_TooLarge(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// No Content-Length, so the limit is enforced while reading
		w.Header().Set("Transfer-Encoding", "chunked")
		chunk := strings.Repeat("a", 1024*1024)
		for i := 0; i <= httpclient.MaxResponseSize/len(chunk); i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	_, err := httpclient.NewDefaultClient(0).Get(context.Background(), server.URL)
	require.ErrorContains(t, err, "exceeds maximum allowed size")
}

func TestDefaultClient_Get_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := httpclient.NewDefaultClient(0).Get(ctx, "http://127.0.0.1:1/words.txt")
	require.ErrorContains(t, err, "failed to execute request")
}
