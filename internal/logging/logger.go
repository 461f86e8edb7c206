package logging

import (
	"io"
	"log/slog"
)

// NewLogger builds the program's JSON logger
func NewLogger(w io.Writer, level slog.Level, project string, instanceID string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewTraceLogHandler(handler, project)).With(slog.String("instanceID", instanceID))
}
