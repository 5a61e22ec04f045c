package llm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pdfquiz/internal/logging"
)

// GenerationEvent records one provider call.
type GenerationEvent struct {
	ID           uuid.UUID
	Model        string
	Purpose      string
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
	Success      bool
	ErrorMessage string
	CreatedAt    time.Time
}

// EventSink stores generation events. Implementations must be safe for
// concurrent use.
type EventSink interface {
	RecordGeneration(ctx context.Context, event GenerationEvent) error
}

// LoggingProvider is a decorator that logs every provider call and, when a
// sink is configured, records it as a GenerationEvent.
type LoggingProvider struct {
	inner Provider
	sink  EventSink
}

// WithLogging wraps a Provider with call logging. sink may be nil.
func WithLogging(p Provider, sink EventSink) Provider {
	return &LoggingProvider{inner: p, sink: sink}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	log := logging.WithContext(ctx)
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	event := GenerationEvent{
		ID:        uuid.New(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		CreatedAt: start.UTC(),
	}
	if resp != nil {
		event.InputTokens = resp.Usage.InputTokens
		event.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			event.Model = resp.Model
		}
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}

	fields := logrus.Fields{
		"model":         event.Model,
		"purpose":       event.Purpose,
		"latency_ms":    event.LatencyMs,
		"input_tokens":  event.InputTokens,
		"output_tokens": event.OutputTokens,
	}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("LLM request failed")
	} else {
		log.WithFields(fields).Info("LLM request completed")
	}

	if l.sink != nil {
		if sinkErr := l.sink.RecordGeneration(ctx, event); sinkErr != nil {
			log.WithError(sinkErr).Warn("Failed to record generation event")
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
