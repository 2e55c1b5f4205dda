// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fairyhunter13/item-registry-service/internal/obs"
	"github.com/fairyhunter13/item-registry-service/internal/registry"
)

const (
	detailNotFound     = "Item not found"
	detailInternal     = "Internal Server Error"
	detailEntityTooBig = "Request Entity Too Large"
)

// jsonError represents a JSON error payload. Detail is a string or a list of
// FieldError values.
type jsonError struct {
	Detail any `json:"detail"`
}

// FieldError describes one failed structural check on the request.
type FieldError struct {
	Type string `json:"type"`
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
}

// ValidationError carries every FieldError found in a request.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// statusError is a client error with a fixed status and message.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string { return e.detail }

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, detail any) {
	_ = writeJSON(w, status, jsonError{Detail: detail})
}

// writeJSON encodes v before touching w, so an unencodable value leaves the
// response unwritten for the caller to report.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
	return nil
}

// writeError maps err onto the response. Anything that is not a known client
// error is logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *ValidationError
		se *statusError
		nf *registry.NotFoundError
	)
	reqID := RequestIDFromContext(r.Context())
	switch {
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusUnprocessableEntity, ve.Errors)
	case errors.As(err, &se):
		WriteJSONError(w, se.status, se.detail)
	case errors.As(err, &nf):
		obs.Logger.Warn("item_not_found", "item_id", nf.ID, "request_id", reqID)
		WriteJSONError(w, http.StatusNotFound, detailNotFound)
	case errors.Is(err, registry.ErrNotFound):
		obs.Logger.Warn("item_not_found", "request_id", reqID)
		WriteJSONError(w, http.StatusNotFound, detailNotFound)
	default:
		obs.Logger.Error("unhandled_error", "error", err.Error(), "method", r.Method, "path", r.URL.Path, "request_id", reqID)
		WriteJSONError(w, http.StatusInternalServerError, detailInternal)
	}
}
