package common

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetSessionIDParam extracts the session id URL parameter and checks that
// it is a UUID in canonical form
func GetSessionIDParam(r *http.Request, paramName string) (string, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return "", fmt.Errorf("%s cannot be empty", paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s must be a UUID", paramName)
	}
	return id.String(), nil
}
