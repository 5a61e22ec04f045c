package quizgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfquiz/internal/llm"
	"pdfquiz/internal/logging"
	"pdfquiz/internal/models"
)

// Purpose labels generation events recorded for this client.
const Purpose = "question-generation"

// Generator turns source text into a question set. Client and
// RemoteClient both implement it.
type Generator interface {
	Generate(ctx context.Context, text string, n int) (models.QuestionSet, error)
}

// Config controls request construction.
type Config struct {
	// MaxTextLength is the number of characters of source text sent to the
	// model. Longer text is cut silently.
	MaxTextLength int `yaml:"max_text_length"`

	// MaxQuestions caps the requested count. Zero disables the cap.
	MaxQuestions int `yaml:"max_questions"`

	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTextLength: 15000,
		MaxQuestions:  50,
		MaxTokens:     2000,
		Temperature:   0.7,
	}
}

// Client generates questions with a language-model provider.
type Client struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Client. A nil provider yields a client whose every call
// fails with an *ErrService wrapping llm.ErrNotConfigured.
func New(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, cfg: cfg}
}

// Generate asks the provider for n questions about text. It makes exactly
// one provider call and returns the parsed set as the model produced it.
func (c *Client) Generate(ctx context.Context, text string, n int) (models.QuestionSet, error) {
	if err := c.validate(text, n); err != nil {
		return nil, err
	}
	if c.provider == nil {
		return nil, &ErrService{Message: "no generation provider configured", Err: llm.ErrNotConfigured}
	}

	sent, truncated := Truncate(text, c.cfg.MaxTextLength)

	log := logging.WithContext(ctx).WithFields(logrus.Fields{
		"requested":   n,
		"text_length": len(sent),
		"truncated":   truncated,
		"model":       c.provider.ModelID(),
	})
	log.Info("Calling provider for questions")

	resp, err := c.provider.Generate(llm.WithPurpose(ctx, Purpose), llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(sent, n)}},
		Schema:      responseSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}

	questions, err := ParseQuestions(resp.Text)
	if err != nil {
		log.WithError(err).Warn("Could not parse provider reply")
		return nil, err
	}

	if len(questions) != n {
		log.Warnf("Provider returned %d questions, %d requested", len(questions), n)
	}
	log.Infof("Generated %d questions", len(questions))
	return questions, nil
}

func (c *Client) validate(text string, n int) error {
	if strings.TrimSpace(text) == "" {
		return &ErrValidation{Field: "text", Reason: "is required"}
	}
	if n <= 0 {
		return &ErrValidation{Field: "numQuestions", Reason: "must be a positive integer"}
	}
	if c.cfg.MaxQuestions > 0 && n > c.cfg.MaxQuestions {
		return &ErrValidation{Field: "numQuestions", Reason: fmt.Sprintf("must not exceed %d", c.cfg.MaxQuestions)}
	}
	return nil
}

// Truncate cuts text to at most max characters. It reports whether
// anything was removed. A non-positive max leaves text unchanged.
func Truncate(text string, max int) (string, bool) {
	if max <= 0 || len(text) <= max {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}
	return string(runes[:max]), true
}

func classifyProviderError(err error) error {
	var invalid *llm.ErrInvalidResponse
	if errors.As(err, &invalid) {
		return &ErrFormat{Raw: invalid.Content, Err: err}
	}

	var unavailable *llm.ErrProviderUnavailable
	if errors.As(err, &unavailable) {
		return &ErrService{
			StatusCode: unavailable.StatusCode,
			Message:    unavailable.Message,
			Err:        err,
		}
	}

	if errors.Is(err, llm.ErrNotConfigured) {
		return &ErrService{Message: "no generation provider configured", Err: err}
	}
	return &ErrService{Err: err}
}
