// ABOUTME: Normalized error type for every failure the API client reports
// ABOUTME: Turns transport failures and error bodies into one readable message

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	// KindApplication is an HTTP error status other than 401
	KindApplication Kind = iota
	// KindTimeout is a request that ran past the transport timeout
	KindTimeout
	// KindNetwork is a request that never got a response
	KindNetwork
	// KindUnauthenticated is a 401; the session has been cleared
	KindUnauthenticated
	// KindDecode is a 2xx body that does not match the expected shape
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindDecode:
		return "decode"
	default:
		return "application"
	}
}

// User-facing messages for failures the server did not describe.
const (
	MsgSessionExpired = "Session expired. Please log in again."
	MsgTimeout        = "Request timed out. Please try again."
	MsgNetwork        = "Connection error. Check your network and that the API is reachable."
	MsgServer         = "Error communicating with the server"
)

// ErrUnauthenticated matches any unauthenticated *Error through errors.Is.
var ErrUnauthenticated = errors.New("unauthenticated")

// Error is the single error type returned for API failures.
// Message is always safe to show to a user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Fields holds per-field validation messages when the server sent them.
	Fields map[string][]string
	Method string
	Path   string
	Cause  error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthenticated && e.Kind == KindUnauthenticated
}

// Transient reports whether retrying the same request may succeed.
func (e *Error) Transient() bool {
	return e.Kind == KindTimeout || e.Kind == KindNetwork
}

// IsTransient reports whether err is a retryable transport failure.
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Transient()
}

// transportError classifies a failure from http.Client.Do.
func transportError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, Cause: err}
	}
	return &Error{Kind: KindNetwork, Message: MsgNetwork, Cause: err}
}

// serverMessage is the fallback for an error status the body does not explain.
func serverMessage(status int) string {
	return fmt.Sprintf("%s (HTTP %d).", MsgServer, status)
}

// problemDetails is the error body shape the backend uses.
// Errors values are usually lists of strings but single strings occur too.
type problemDetails struct {
	Message string                     `json:"message"`
	Title   string                     `json:"title"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// normalizeResponse builds the error for a non-2xx, non-401 response.
// Priority: plain text body, then message, then title with validation
// details, then a generic fallback carrying the status code.
func normalizeResponse(status int, body []byte) *Error {
	e := &Error{Kind: KindApplication, Status: status, Message: serverMessage(status)}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return e
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		e.Message = trimmed
		return e
	}

	switch v := raw.(type) {
	case string:
		if v != "" {
			e.Message = v
		}
		return e
	case map[string]any:
	default:
		return e
	}

	var pd problemDetails
	if err := json.Unmarshal(body, &pd); err != nil {
		return e
	}

	switch {
	case pd.Message != "":
		e.Message = pd.Message
	case pd.Title != "":
		e.Message = pd.Title
		if fields := validationFields(pd.Errors); len(fields) > 0 {
			e.Fields = fields
			e.Message += ": " + strings.Join(flatten(fields), ", ")
		}
	}
	return e
}

func validationFields(raw map[string]json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for key, msg := range raw {
		var list []string
		if err := json.Unmarshal(msg, &list); err == nil {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil {
			fields[key] = []string{single}
		}
	}
	return fields
}

// flatten lists every message, visiting fields in sorted order.
func flatten(fields map[string][]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, fields[k]...)
	}
	return msgs
}
