package logger

import (
	"context"
	"log/slog"
	"testing"

	"go.uber.org/fx"
)

func TestModule(t *testing.T) {
	var l *slog.Logger
	app := fx.New(Module, fx.NopLogger, fx.Populate(&l))
	t.Cleanup(func() { _ = app.Stop(context.Background()) })

	if err := app.Err(); err != nil {
		t.Fatalf("fx app failed: %v", err)
	}
	if l == nil {
		t.Fatal("logger was not populated")
	}
}
