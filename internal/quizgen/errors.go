package quizgen

import "fmt"

// fallbackServiceMessage is reported when the generation service failed
// without a diagnostic of its own.
const fallbackServiceMessage = "generation service request failed"

// ErrValidation reports malformed input to Generate.
type ErrValidation struct {
	Field  string
	Reason string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrService reports a failed call to the generation service: transport
// errors, non-success statuses and missing service credentials.
type ErrService struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrService) Error() string {
	return "generation service error: " + e.Detail()
}

// Detail returns the upstream diagnostic text, or a generic message when
// the service sent none.
func (e *ErrService) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackServiceMessage
}

func (e *ErrService) Unwrap() error { return e.Err }

// ErrFormat reports a reply that could not be read as a question array.
type ErrFormat struct {
	Raw string
	Err error
}

func (e *ErrFormat) Error() string {
	if e.Err == nil {
		return "could not generate questions"
	}
	return fmt.Sprintf("could not generate questions: %v", e.Err)
}

func (e *ErrFormat) Unwrap() error { return e.Err }
