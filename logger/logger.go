// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger provides a context-aware logger built on [slog].
package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// multiHandler fans out log records to multiple handlers.
type multiHandler struct {
	mu       sync.RWMutex
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h *multiHandler) derive(f func(slog.Handler) slog.Handler) *multiHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	derived := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		derived[i] = f(handler)
	}
	return &multiHandler{handlers: derived}
}

func (h *multiHandler) attach(handler slog.Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

// Logger encapsulates an [slog.Logger] and allows attaching multiple
// [slog.Handler] at runtime.
//
// It also holds a [slog.LevelVar] that handlers attached to it should use as
// their level, so the level can be changed after the handlers are created.
type Logger struct {
	*slog.Logger
	Level   *slog.LevelVar
	handler *multiHandler
}

// New creates a new Logger. The logger initially has no handlers.
// Its LevelVar is initialized to LevelInfo if level is nil.
func New(level *slog.LevelVar) *Logger {
	if level == nil {
		level = new(slog.LevelVar)
		level.Set(slog.LevelInfo)
	}
	mh := new(multiHandler)
	return &Logger{
		Logger:  slog.New(mh),
		Level:   level,
		handler: mh,
	}
}

// Attach attaches a handler to the logger.
func (l *Logger) Attach(h slog.Handler) { l.handler.attach(h) }

var defaultLogger = newDefaultLogger()

func newDefaultLogger() *Logger {
	l := New(nil)
	l.Attach(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: l.Level}))
	return l
}

// Put returns a new context with the provided [Logger].
func Put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Get retrieves the [Logger] from the context.
//
// If the context has no [Logger], it returns a default [Logger] that discards all
// messages.
func Get(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// Debug logs a debug message.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs an info message.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}
