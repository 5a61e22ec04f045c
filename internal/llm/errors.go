package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("LLM provider not configured")

// ErrProviderUnavailable indicates the provider call failed: network error,
// non-success status, or rejected credentials. Message carries the
// provider's own diagnostic text when it sent one.
type ErrProviderUnavailable struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrProviderUnavailable) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("LLM provider unavailable (status %d): %s", e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("LLM provider unavailable: %s", e.Message)
	case e.Err != nil:
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider replied but the reply could not
// be used (no content, no choices).
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }
