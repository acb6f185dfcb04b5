package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrMissingField      = errors.New("missing field")
	ErrInvalidOption     = errors.New("invalid option")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrProviderFailure   = errors.New("provider failure")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrTransportFailure  = errors.New("transport failure")
	ErrIOFailure         = errors.New("io failure")
	ErrEventLogWrite     = errors.New("event log write failed")
)

// MissingFieldError names the selection field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ProviderError carries a non-2xx reply from the image provider. Error returns
// the provider's own message verbatim when one was extracted.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *ProviderError) Unwrap() error { return ErrProviderFailure }
