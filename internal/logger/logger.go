// Package logger configures the application slog loggers and provides
// request-scoped logging helpers for the HTTP handlers.
package logger

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
)

type contextKey string

const (
	requestLoggerKey contextKey = "requestLogger"
	logAttrsKey      contextKey = "logAttrs"
)

// ParseLogLevel converts a LOG_LEVEL config string to a slog.Level.
// Unrecognized values default to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger creates the application logger.
//
// In dev the logger writes human-readable colorized output (tint); in all
// other environments it writes JSON lines suitable for log collectors.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	if environment == "dev" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// logAttrs accumulates attributes that should be included in the final
// request log line. Handlers add attributes via ContextWithLogAttrs.
type logAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// ContextRequestLogger returns the request-scoped logger stored in the
// context by the RequestLogging middleware, or the default logger when the
// context has none (e.g. in tests).
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs appends attributes to the final request log line.
// It is a no-op when the context was not set up by the RequestLogging
// middleware.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	la, ok := ctx.Value(logAttrsKey).(*logAttrs)
	if !ok {
		return
	}
	la.mu.Lock()
	defer la.mu.Unlock()
	la.attrs = append(la.attrs, attrs...)
}

// RequestLogging returns a middleware that stores a request-scoped logger in
// the context and emits one summary log line per request.
func RequestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := middleware.GetReqID(r.Context())
			reqLogger := logger.With(
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			la := &logAttrs{}
			ctx := context.WithValue(r.Context(), requestLoggerKey, reqLogger)
			ctx = context.WithValue(ctx, logAttrsKey, la)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			la.mu.Lock()
			extra := make([]any, 0, len(la.attrs)+2)
			for _, a := range la.attrs {
				extra = append(extra, a)
			}
			la.mu.Unlock()

			extra = append(extra,
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
			reqLogger.Info("request completed", extra...)
		})
	}
}
