package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type contextKey struct{}

// Setup installs the default logger writing to stdout. format is "json",
// "text" or "pretty".
func Setup(level string, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}

// NewHandler builds the handler Setup installs, writing to w. The pretty
// format colours its output only when w is a terminal.
func NewHandler(w io.Writer, level string, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		return slog.NewJSONHandler(w, opts)
	case "pretty":
		noColor := true
		if f, ok := w.(*os.File); ok {
			noColor = !isatty.IsTerminal(f.Fd())
			w = colorable.NewColorable(f)
		}
		return tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "15:04:05.000",
			NoColor:    noColor,
		})
	default:
		return slog.NewTextHandler(w, opts)
	}
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if requestID := RequestID(ctx); requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
