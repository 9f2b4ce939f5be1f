package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteErrorResponse(rr, "session not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "session not found", body.Error)
	assert.Empty(t, body.Letters)
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	type request struct {
		Letters string `json:"letters"`
	}

	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid body", body: `{"letters":"abc"}`, want: "abc"},
		{name: "empty body", body: ``, wantErr: true},
		{name: "malformed json", body: `{"letters":`, wantErr: true},
		{name: "unknown field", body: `{"letters":"a","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"letters":"a"}{"letters":"b"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var got request
			err := DecodeJSONBody(req, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Letters)
		})
	}
}
