package pkg

import (
	"errors"
	"fmt"
)

// Reusable sentinel errors for orchestrator call sites.
var (
	ErrBusy     = errors.New("request already in flight")
	ErrClosed   = errors.New("orchestrator closed")
	ErrNoResult = errors.New("no completed result")
)

// FallbackMessage is shown when a failure carries no usable server message.
const FallbackMessage = "something went wrong, please try again"

// NetworkError means no response was received: connection failure, DNS,
// timeout. The request may or may not have reached the server.
type NetworkError struct {
	Op    string // e.g. "POST /predict"
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Cause)
}
func (e *NetworkError) Unwrap() error { return e.Cause }

// ServiceError is a non-2xx response. Message carries the server-supplied
// `error` field when present, otherwise the raw body is discarded and
// Message is empty.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("service error (status %d)", e.Status)
	}
	return fmt.Sprintf("service error (status %d): %s", e.Status, e.Message)
}

// ValidationError is raised before dispatch when a required field is missing
// or out of range. It never reaches the wire.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UserMessage converts any request failure into the message surfaced in an
// Error state. Server-supplied messages win, then validation detail, then a
// generic fallback.
func UserMessage(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "could not reach the detection service"
	}
	if err != nil {
		return FallbackMessage
	}
	return ""
}
