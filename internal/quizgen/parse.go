package quizgen

import (
	"encoding/json"
	"errors"
	"strings"

	"pdfquiz/internal/llm"
	"pdfquiz/internal/models"
)

var errNoArray = errors.New("no JSON array found in reply")

// ParseQuestions reads a model reply into a question set. It accepts a
// {"questions": [...]} object, a bare array, or the first JSON array
// embedded in surrounding prose. The array must satisfy the strict
// question schema; anything else is an *ErrFormat.
func ParseQuestions(raw string) (models.QuestionSet, error) {
	trimmed := strings.TrimSpace(raw)

	payload, ok := envelopeQuestions(trimmed)
	if !ok {
		payload, ok = extractArray(trimmed)
	}
	if !ok {
		return nil, &ErrFormat{Raw: raw, Err: errNoArray}
	}

	if err := llm.Validate(questionArraySchema, payload); err != nil {
		return nil, &ErrFormat{Raw: raw, Err: err}
	}

	var questions models.QuestionSet
	if err := json.Unmarshal(payload, &questions); err != nil {
		return nil, &ErrFormat{Raw: raw, Err: err}
	}
	return questions, nil
}

// envelopeQuestions returns the questions array of a structured-output
// reply.
func envelopeQuestions(s string) ([]byte, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var envelope struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(s), &envelope); err != nil {
		return nil, false
	}
	q := strings.TrimSpace(string(envelope.Questions))
	if !strings.HasPrefix(q, "[") {
		return nil, false
	}
	return []byte(q), true
}

// extractArray finds the first balanced, valid JSON array in s. Brackets
// inside JSON strings do not count toward nesting.
func extractArray(s string) ([]byte, bool) {
	for start := strings.IndexByte(s, '['); start >= 0; {
		if end, ok := matchBracket(s, start); ok {
			candidate := s[start : end+1]
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), true
			}
		}
		next := strings.IndexByte(s[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchBracket returns the index of the ']' closing the '[' at open.
func matchBracket(s string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
