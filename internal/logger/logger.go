package logger

import (
	"log/slog"
	"os"
)

// New builds the process-wide JSON logger. Info and above go to stdout;
// every record carries the service name.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", "loanledger"))
}
