// ABOUTME: Error taxonomy for backend calls
// ABOUTME: Classifies failures as transport, auth, validation, not-found, or server rejection

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrTransport matches network failures, cancellations and timeouts.
	ErrTransport = errors.New("transport failure")
	// ErrUnauthorized matches bad credentials and expired or invalid tokens.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden matches authenticated calls the server refuses (e.g. not the owner).
	ErrForbidden = errors.New("not permitted")
	// ErrValidation matches missing or malformed input, client or server side.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound matches a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrServer matches any other non-2xx response.
	ErrServer = errors.New("server rejected request")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend error: %s", e.Detail)
}

// Unwrap lets errors.Is match the taxonomy sentinel for the status code
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrServer
	}
}

// TransportError means the request never produced an HTTP response
type TransportError struct {
	msg string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil || e.msg == "request canceled" || e.msg == "request timed out" {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// errorBody covers both FastAPI ({"detail": ...}) and plain ({"error": ...}) shapes
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

type fieldError struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

// parseErrorDetail extracts a human-readable message from an error body.
// FastAPI's 422 list form is flattened into "field: message" pairs.
func parseErrorDetail(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}

		var fields []fieldError
		if err := json.Unmarshal(body.Detail, &fields); err == nil {
			msgs := make([]string, 0, len(fields))
			for _, f := range fields {
				if len(f.Loc) > 0 {
					msgs = append(msgs, fmt.Sprintf("%v: %s", f.Loc[len(f.Loc)-1], f.Msg))
				} else {
					msgs = append(msgs, f.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	return body.Error
}
