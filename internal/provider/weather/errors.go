package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Kind classifies a weather fetch failure.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindTimeout      Kind = "timeout"
	KindConnection   Kind = "connection"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindBadRequest   Kind = "bad_request"
	KindHTTP         Kind = "http_status"
	KindUnavailable  Kind = "unavailable"
	KindTransport    Kind = "transport"
)

// Error is the uniform failure value returned by weather clients.
// Error() is the human-readable reason shown to users.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a weather *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var we *Error
	return errors.As(err, &we) && we.Kind == kind
}

func errLocationRequired() *Error {
	return &Error{Kind: KindInvalidInput, Message: "City name is required"}
}

// transportError maps a failed round trip onto the failure taxonomy.
func transportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: "Weather API request timed out", Err: err}
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.Is(err, syscall.ECONNREFUSED) || errors.As(err, &dnsErr) || (errors.As(err, &opErr) && opErr.Op == "dial") {
		return &Error{Kind: KindConnection, Message: "Connection error. Please check your internet connection.", Err: err}
	}

	return &Error{Kind: KindTransport, Message: fmt.Sprintf("Weather API error: %v", err), Err: err}
}

// statusError maps a non-2xx response onto the failure taxonomy.
// body is inspected for a provider-supplied "message" field.
func statusError(status int, body []byte, location string) *Error {
	msg := providerMessage(body)

	switch status {
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: fmt.Sprintf("City '%s' not found. Please check the spelling.", location)}
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Status: status, Message: withDetail("Invalid API key for weather service", msg)}
	case http.StatusBadRequest:
		return &Error{Kind: KindBadRequest, Status: status, Message: withDetail("Invalid request to weather service", msg)}
	default:
		return &Error{Kind: KindHTTP, Status: status, Message: fmt.Sprintf("Weather API error: %d - %s", status, http.StatusText(status))}
	}
}

func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func withDetail(base, detail string) string {
	if detail == "" {
		return base
	}
	return base + ": " + detail
}
