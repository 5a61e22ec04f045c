package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingSink struct {
	mu     sync.Mutex
	events []GenerationEvent
	err    error
}

func (s *recordingSink) RecordGeneration(_ context.Context, e GenerationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "ok", Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrProviderUnavailable{Message: "down"}},
	)
	sink := &recordingSink{}
	p := WithLogging(mock, sink)

	ctx := WithPurpose(context.Background(), "question-gen")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error from second call")
	}

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(sink.events))
	}
	first, second := sink.events[0], sink.events[1]
	if !first.Success || first.InputTokens != 7 || first.Purpose != "question-gen" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if second.Success || second.ErrorMessage == "" {
		t.Fatalf("unexpected second event: %+v", second)
	}
	if first.ID == second.ID {
		t.Fatal("expected distinct event IDs")
	}
}

func TestLoggingProvider_SinkFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "ok"})
	p := WithLogging(mock, &recordingSink{err: errors.New("db down")})

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected ModelID passthrough, got %q", p.ModelID())
	}
}

func TestLoggingProvider_NilSink(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "ok"}), nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPurposeFromDefault(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}
