package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response is read
const maxErrorBody = 64 << 10

// RequestError is returned when the backend answers with a non-2xx status
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // Taken from the body's "error" or "detail" field when present
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("[BACKEND]: backend '%s %s' failed: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// newRequestError builds a RequestError from a failed response
func newRequestError(method, path string, resp *http.Response) *RequestError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return &RequestError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(b),
	}
}

// errorMessage extracts a message from an error body. The backend uses either
// {"error": "..."} or FastAPI's {"detail": "..."}; anything else yields ""
func errorMessage(body []byte) string {
	var payload struct {
		Error  any `json:"error"`
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, v := range []any{payload.Error, payload.Detail} {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// UserMessage turns an error into the short text shown next to a control.
// Validation errors keep their own text, backend error fields are shown as
// sent, and everything else falls back to the given message
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}

	return fallback
}

// ValidationError is a client-side check that failed before any request was sent
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingFile = &ValidationError{Field: "file", Message: "Please select a file"}
	ErrMissingName = &ValidationError{Field: "name", Message: "Please enter a name for the transcript"}
	ErrMissingDate = &ValidationError{Field: "date", Message: "Please enter a date"}
)
