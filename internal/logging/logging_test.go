package logging

import (
	"context"
	"testing"
)

func TestContextLoggerRoundTrip(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != nil {
		t.Fatalf("LoggerFromContext on a bare context = %v, want nil", got)
	}

	base := Noop()
	ctx := ContextWithLogger(context.Background(), base)
	if got := LoggerFromContext(ctx); got != base {
		t.Fatalf("LoggerFromContext = %v, want the stored logger", got)
	}
}

func TestContextWithLoggerNilFallsBackToNoop(t *testing.T) {
	ctx := ContextWithLogger(context.Background(), nil)
	if got := LoggerFromContext(ctx); got == nil {
		t.Fatal("LoggerFromContext = nil after storing nil, want noop logger")
	}
}

func TestWithRequestLoggerAssignsStableID(t *testing.T) {
	ctx, log := WithRequestLogger(context.Background(), Noop())
	if log == nil {
		t.Fatal("WithRequestLogger returned nil logger")
	}

	id := RequestIDFromContext(ctx)
	if id == "" {
		t.Fatal("no request_id attached to the context")
	}

	// A second call on the same context must reuse the ID.
	ctx2, _ := WithRequestLogger(ctx, Noop())
	if got := RequestIDFromContext(ctx2); got != id {
		t.Fatalf("request_id changed across calls: %q then %q", id, got)
	}
}

func TestEnsureRequestIDGeneratesDistinctIDs(t *testing.T) {
	_, a := EnsureRequestID(context.Background())
	_, b := EnsureRequestID(context.Background())
	if a == b {
		t.Fatalf("two fresh contexts received the same request_id %q", a)
	}
}
