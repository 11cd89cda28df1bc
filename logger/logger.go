// Package logger creates structured loggers used across the generation pipeline
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	DEBUG = "DEBUG"
	INFO  = "INFO"
	WARN  = "WARN"
	ERROR = "ERROR"

	// DebugEnv enables debug level when set
	DebugEnv = "XPROXY_DEBUG"
)

// Level returns slog level for name, INFO when unknown
func Level(name string) slog.Level {
	switch strings.ToUpper(name) {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New creates JSON structured logger writing to dest (stdout when nil)
func New(level string, dest io.Writer) *slog.Logger {
	if dest == nil {
		dest = os.Stdout
	}
	if os.Getenv(DebugEnv) != "" {
		level = DEBUG
	}
	handler := slog.NewJSONHandler(dest, &slog.HandlerOptions{
		Level: Level(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	})
	return slog.New(handler)
}
