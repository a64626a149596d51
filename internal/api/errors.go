package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a request failure by its HTTP status class.
type ErrorKind int

const (
	// KindNetwork means the request never completed (DNS, refused
	// connection, timeout). No backend message is available.
	KindNetwork ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServer
)

// String returns a short label for the kind, used in error text.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBadRequest:
		return "bad request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	default:
		return "server error"
	}
}

// RequestError is the single failure contract of the transport client.
// Every non-2xx response and every transport failure is surfaced as one
// of these; Message carries the backend's JSON error body text when the
// backend provided one, else a per-operation fallback.
type RequestError struct {
	Op      string // operation name, e.g. "chat"
	Status  int    // HTTP status, 0 for network failures
	Kind    ErrorKind
	Message string
	Err     error // underlying transport error, if any
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("api: %s: %s (status %d)", e.Op, e.Message, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// kindForStatus maps an HTTP status to its error classification.
func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= 400 && status < 500 {
		return KindBadRequest
	}
	return KindServer
}

// IsNotFound reports whether err is a RequestError for a 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNotFound
}

// IsUnauthorized reports whether err is a RequestError for a 401/403.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && (re.Kind == KindUnauthorized || re.Kind == KindForbidden)
}
