package geoview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by geoview and its sub-packages.
// By default geoview produces no log output. Pass nil to restore that.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame timing, compile counts
//   - [slog.LevelInfo]: window/view lifecycle, realization
//   - [slog.LevelWarn]: soft assertion failures (untracked views, unknown windows)
//   - [slog.LevelError]: window creation and compile failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
