package logger

import (
	"io"
	"log/slog"
)

// Nop returns logger discarding every record
func Nop() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
