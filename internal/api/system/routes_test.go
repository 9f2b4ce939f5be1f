package system_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/wordfinder/internal/api/system"
	"github.com/stacklok/wordfinder/internal/session/mocks"
	"github.com/stacklok/wordfinder/internal/versions"
)

func TestRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		path            string
		readiness       error
		wantStatus      int
		wantStatusField string
	}{
		{
			name:            "health",
			path:            "/health",
			wantStatus:      http.StatusOK,
			wantStatusField: "healthy",
		},
		{
			name:            "ready",
			path:            "/readiness",
			wantStatus:      http.StatusOK,
			wantStatusField: "ready",
		},
		{
			name:       "not ready",
			path:       "/readiness",
			readiness:  errors.New("word file missing"),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)

			mockSvc := mocks.NewMockService(ctrl)
			mockSvc.EXPECT().CheckReadiness(gomock.Any()).Return(tt.readiness).AnyTimes()

			rr := httptest.NewRecorder()
			system.Router(mockSvc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.wantStatusField != "" {
				assert.Equal(t, tt.wantStatusField, body["status"])
			} else {
				assert.Contains(t, body["error"], "word file missing")
			}
		})
	}
}

func TestVersion(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	rr := httptest.NewRecorder()
	system.Router(mocks.NewMockService(ctrl)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var info versions.Info
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, versions.Get(), info)
}
