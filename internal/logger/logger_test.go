package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelInfo) {
		t.Error("info level should be enabled")
	}
	if l.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug level should be disabled")
	}
	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected a JSON handler, got %T", l.Handler())
	}
}
