package models

import (
	"errors"
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is a single multiple-choice question generated from a document.
// The JSON field names match the generation endpoint's wire format.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"answers"`
	CorrectIndex int      `json:"correctIndex"`
}

// QuestionSet is the ordered list of questions for one quiz run.
type QuestionSet []Question

// Validate reports the first structural problem with q, or nil.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is empty")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(q.Options))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("option %q is duplicated", opt)
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range [0,%d]", q.CorrectIndex, len(q.Options)-1)
	}
	return nil
}

// Clone returns a deep copy of the set so callers cannot mutate session state.
func (qs QuestionSet) Clone() QuestionSet {
	if qs == nil {
		return nil
	}
	out := make(QuestionSet, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// GenerateRequest is the body accepted by the generation endpoint.
type GenerateRequest struct {
	Text         string `json:"text"`
	NumQuestions int    `json:"numQuestions"`
}

// GenerateResponse is the success body of the generation endpoint.
type GenerateResponse struct {
	Questions QuestionSet `json:"questions"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ExtractResponse represents the response for the document extraction endpoint
type ExtractResponse struct {
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Preview string `json:"preview"`
}
