// Package v1 provides the word filtering API: one-shot searches and
// stateful filtering sessions.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/wordfinder/internal/api/common"
	"github.com/stacklok/wordfinder/internal/session"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

const (
	sessionIDParam = "sessionID"
	defaultLength  = 5
)

// CreateSessionRequest is the body of POST /sessions
type CreateSessionRequest struct {
	Language string `json:"language"`
	// Length defaults to 5; 0 loads words of every length
	Length *int `json:"length,omitempty"`
}

// LettersRequest is the body of the exclude and include endpoints
type LettersRequest struct {
	Letters string `json:"letters"`
}

// PatternRequest is the body of the pattern endpoint
type PatternRequest struct {
	Pattern string `json:"pattern"`
}

// LengthRequest is the body of the length endpoint
type LengthRequest struct {
	Length int `json:"length"`
}

// WordsResponse is the body of GET /sessions/{id}/words
type WordsResponse struct {
	Words []string `json:"words"`
	Count int      `json:"count"`
}

// Routes handles HTTP requests for the v1 endpoints
type Routes struct {
	service session.Service
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc session.Service) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates and configures the HTTP router for the v1 endpoints
func Router(svc session.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Post("/search", routes.search)
	r.Post("/sessions", routes.createSession)
	r.Route("/sessions/{"+sessionIDParam+"}", func(r chi.Router) {
		r.Get("/", routes.getSession)
		r.Delete("/", routes.deleteSession)
		r.Get("/words", routes.listWords)
		r.Post("/exclude", routes.exclude)
		r.Post("/include", routes.include)
		r.Post("/pattern", routes.pattern)
		r.Post("/length", routes.length)
		r.Post("/reset", routes.reset)
	})

	return r
}

// search handles POST /api/v1/search
func (routes *Routes) search(w http.ResponseWriter, r *http.Request) {
	var query session.Query
	if err := common.DecodeJSONBody(r, &query); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := wordlist.ValidateLanguage(query.Language); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !validLength(w, query.Length) {
		return
	}

	result, err := routes.service.Search(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// createSession handles POST /api/v1/sessions
func (routes *Routes) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := common.DecodeJSONBody(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := wordlist.ValidateLanguage(req.Language); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	length := defaultLength
	if req.Length != nil {
		length = *req.Length
	}
	if !validLength(w, length) {
		return
	}

	view, err := routes.service.Create(r.Context(), req.Language, length)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+view.ID)
	common.WriteJSONResponse(w, view, http.StatusCreated)
}

// getSession handles GET /api/v1/sessions/{sessionID}
func (routes *Routes) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := routes.service.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	common.WriteJSONResponse(w, view, http.StatusOK)
}

// deleteSession handles DELETE /api/v1/sessions/{sessionID}
func (routes *Routes) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := routes.service.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listWords handles GET /api/v1/sessions/{sessionID}/words
func (routes *Routes) listWords(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	words, err := routes.service.Words(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	common.WriteJSONResponse(w, WordsResponse{Words: words, Count: len(words)}, http.StatusOK)
}

// exclude handles POST /api/v1/sessions/{sessionID}/exclude
func (routes *Routes) exclude(w http.ResponseWriter, r *http.Request) {
	routes.handleLetters(w, r, routes.service.Exclude)
}

// include handles POST /api/v1/sessions/{sessionID}/include
func (routes *Routes) include(w http.ResponseWriter, r *http.Request) {
	routes.handleLetters(w, r, routes.service.Include)
}

// handleLetters is the shared body of the exclude and include handlers
func (*Routes) handleLetters(
	w http.ResponseWriter,
	r *http.Request,
	apply func(id, letters string) (session.Result, error),
) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req LettersRequest
	if err := common.DecodeJSONBody(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := apply(id, req.Letters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

// pattern handles POST /api/v1/sessions/{sessionID}/pattern
func (routes *Routes) pattern(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req PatternRequest
	if err := common.DecodeJSONBody(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := routes.service.Pattern(id, req.Pattern)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

// length handles POST /api/v1/sessions/{sessionID}/length
func (routes *Routes) length(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req LengthRequest
	if err := common.DecodeJSONBody(r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !validLength(w, req.Length) {
		return
	}

	result, err := routes.service.Length(id, req.Length)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeResult(w, result)
}

// reset handles POST /api/v1/sessions/{sessionID}/reset
func (routes *Routes) reset(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	view, err := routes.service.Reset(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	common.WriteJSONResponse(w, view, http.StatusOK)
}

// sessionID extracts the session id or writes a 400 reply
func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := common.GetSessionIDParam(r, sessionIDParam)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// validLength writes a 400 reply for a negative word length
func validLength(w http.ResponseWriter, n int) bool {
	if n < 0 {
		common.WriteErrorResponse(w, "length must not be negative", http.StatusBadRequest)
		return false
	}
	return true
}

// writeResult writes an operation result. Rejected requests answer 409 with
// the conflicting letters.
func writeResult(w http.ResponseWriter, result session.Result) {
	if !result.Applied {
		common.WriteJSONResponse(w, common.ErrorResponse{
			Error:   "letters conflict with the current constraints",
			Letters: result.Conflict,
		}, http.StatusConflict)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// writeServiceError maps service errors to status codes
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, session.ErrTooManySessions):
		common.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, wordlist.ErrUnsupportedLanguage):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, wordlist.ErrNoWords):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("Request failed", "error", err)
		common.WriteErrorResponse(w, "internal server error", http.StatusInternalServerError)
	}
}
