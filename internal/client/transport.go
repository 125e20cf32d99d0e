// ABOUTME: Request logging round-tripper with correlation IDs.
// ABOUTME: Logs request start/end with method, path, status, and latency.

package client

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
)

type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// RoundTrip implements http.RoundTripper
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := generateRequestID()

	// RoundTrip must not mutate the caller's request
	req = req.Clone(req.Context())
	req.Header.Set("X-Request-ID", requestID)

	path := sanitizePath(req.URL.Path)
	t.logger.Debug("Request started",
		"request_id", requestID,
		"method", req.Method,
		"path", path,
	)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.logger.Debug("Request failed",
			"request_id", requestID,
			"method", req.Method,
			"path", path,
			"error", err,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	t.logger.Debug("Request completed",
		"request_id", requestID,
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// sanitizePath strips control characters so ids echoed into paths cannot forge log lines.
func sanitizePath(path string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, path)
}

// generateRequestID creates a short random hex ID.
func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
