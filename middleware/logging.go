// ABOUTME: Request correlation and development logging stages
// ABOUTME: Logs method, path, status, and latency keyed by X-Request-ID

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

type contextKey string

const startTimeKey contextKey = "requestStart"

// RequestID tags each request with a fresh uuid unless one is already set.
func RequestID() RequestStage {
	return RequestStage{
		Name: "request-id",
		Fn: func(r *http.Request) (*http.Request, error) {
			if r.Header.Get(RequestIDHeader) == "" {
				r.Header.Set(RequestIDHeader, uuid.NewString())
			}
			return r, nil
		},
	}
}

// LogRequest logs every outgoing request. Only installed in development.
func LogRequest(logger *slog.Logger) RequestStage {
	return RequestStage{
		Name: "log-request",
		Fn: func(r *http.Request) (*http.Request, error) {
			logger.Info("API request",
				"request_id", r.Header.Get(RequestIDHeader),
				"method", r.Method,
				"path", sanitizePath(r.URL.Path),
			)
			ctx := context.WithValue(r.Context(), startTimeKey, time.Now())
			return r.WithContext(ctx), nil
		},
	}
}

// LogResponse logs status and latency of every response. Only installed in development.
func LogResponse(logger *slog.Logger) ResponseStage {
	return ResponseStage{
		Name: "log-response",
		Fn: func(resp *http.Response) (*http.Response, error) {
			attrs := []any{"status", resp.StatusCode}
			if req := resp.Request; req != nil {
				attrs = append(attrs,
					"request_id", req.Header.Get(RequestIDHeader),
					"method", req.Method,
					"path", sanitizePath(req.URL.Path),
				)
				if start, ok := req.Context().Value(startTimeKey).(time.Time); ok {
					attrs = append(attrs, "latency_ms", time.Since(start).Milliseconds())
				}
			}
			logger.Info("API response", attrs...)
			return resp, nil
		},
	}
}

// sanitizePath drops control characters so a path cannot forge log lines.
func sanitizePath(path string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, path)
}
