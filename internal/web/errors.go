package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/core"
	"github.com/hassanejazpvt/bulk-shipping-label-creator/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError handles error responses with user-friendly messages.
// The HTTP status is derived from the error itself so handlers do not
// repeat the mapping.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	status := statusFor(err)

	// Malformed input gets its concrete parse error back; there is no
	// support code to look up, the client just needs to fix the request.
	var br badRequestError
	if errors.As(err, &br) {
		userMsg = core.UserMessage{
			Message: br.Error(),
			Action:  "Correct the request and retry.",
			Code:    "REQ001",
		}
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// errBadRequest wraps client-side input errors (bad JSON, bad ids) so
// statusFor can classify them without new sentinels per handler.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error { return badRequestError{err: err} }

// statusFor maps an error to the HTTP status it should produce.
func statusFor(err error) int {
	var br badRequestError
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTermsNotAccepted),
		errors.Is(err, core.ErrInvalidEncoding),
		errors.Is(err, core.ErrMissingHeaders),
		errors.Is(err, core.ErrUnknownService),
		errors.As(err, &br):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "header mismatch"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
