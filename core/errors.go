package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind tags a failure with its place in the error taxonomy. It travels
// with error-bearing ProviderResponses so callers can classify failures
// without parsing messages.
type ErrorKind string

const (
	// KindCredentialMissing marks a connector that lacks its required credential.
	KindCredentialMissing ErrorKind = "credential_missing"
	// KindTimeout marks a call that exceeded its time budget.
	KindTimeout ErrorKind = "timeout"
	// KindTransient marks a retryable network or 5xx-class failure.
	KindTransient ErrorKind = "transient"
	// KindRejected marks a non-retryable 4xx or validation failure.
	KindRejected ErrorKind = "rejected"
	// KindConsolidation marks a failed synthesis step.
	KindConsolidation ErrorKind = "consolidation"
	// KindNotFound marks a requested provider name that is not registered.
	KindNotFound ErrorKind = "not_found"
	// KindUnknown marks a failure that escaped the connector boundary.
	KindUnknown ErrorKind = "unknown"
)

// Sentinel errors, one per ErrorKind. ProviderError values match them via errors.Is.
var (
	ErrCredentialMissing = errors.New("credential missing")
	ErrTimeout           = errors.New("timeout")
	ErrTransient         = errors.New("transient provider error")
	ErrRejected          = errors.New("provider rejected request")
	ErrConsolidation     = errors.New("consolidation failed")
	ErrNotFound          = errors.New("provider not found")
	ErrUnknown           = errors.New("unexpected failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindCredentialMissing:
		return ErrCredentialMissing
	case KindTimeout:
		return ErrTimeout
	case KindTransient:
		return ErrTransient
	case KindRejected:
		return ErrRejected
	case KindConsolidation:
		return ErrConsolidation
	case KindNotFound:
		return ErrNotFound
	default:
		return ErrUnknown
	}
}

// ProviderError attaches a provider name and taxonomy kind to an underlying cause.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

// NewProviderError wraps err (or the kind's sentinel when err is nil).
func NewProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	if err == nil {
		err = kind.sentinel()
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Err }

// Is matches the sentinel error of the kind.
func (e *ProviderError) Is(target error) bool { return target == e.Kind.sentinel() }

// KindOf classifies err. Context deadline expiry counts as a timeout and
// anything unrecognized is treated as transient.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrCredentialMissing):
		return KindCredentialMissing
	case errors.Is(err, ErrRejected):
		return KindRejected
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConsolidation):
		return KindConsolidation
	case errors.Is(err, ErrUnknown):
		return KindUnknown
	default:
		return KindTransient
	}
}

// IsRetryable reports whether retrying err could plausibly succeed.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	switch KindOf(err) {
	case KindRejected, KindCredentialMissing, KindNotFound:
		return false
	default:
		return true
	}
}
