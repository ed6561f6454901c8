package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"olistcli/internal/config"
)

type contextKey string

// TraceIDContextKey holds the run id in a context.
const TraceIDContextKey contextKey = "trace_id"

// NewLogger builds the run logger described by cfg. Console output goes to
// console; file output is appended to cfg.FilePath. The returned close func
// releases the log file and is safe to call when none was opened.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, func() error, error) {
	closeFn := func() error { return nil }

	var out io.Writer = console
	if mode := strings.ToLower(cfg.Output); mode == "file" || mode == "both" {
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		closeFn = file.Close
		out = file
		if mode == "both" {
			out = io.MultiWriter(console, file)
		}
	}

	opts := &slog.HandlerOptions{AddSource: true, Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	}
	return slog.New(NewTraceHandler(handler)), closeFn, nil
}

// NewTraceHandler wraps h so records logged with a context carrying a run id
// get a trace_id attribute.
func NewTraceHandler(h slog.Handler) slog.Handler {
	return traceHandler{h}
}

type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}

// parseLogLevel maps a config level to slog; unknown values log at info.
func parseLogLevel(level string) slog.Level {
	level = strings.ToLower(level)
	if level == "warning" {
		level = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}
