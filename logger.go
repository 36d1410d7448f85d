package tear

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that drops every record. Enabled reports
// false so callers skip building the message at all.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by tear and its sub-packages.
// The library is silent until SetLogger is called. Passing nil restores
// the silent default.
//
// Log levels used by tear:
//   - [slog.LevelDebug]: per-activation details (indices, shape offset), resizes
//   - [slog.LevelInfo]: lifecycle events (textures loaded, pipeline created)
//   - [slog.LevelWarn]: recoverable problems (asset substituted, degenerate viewport)
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (internal/gpu,
// internal/sfx, internal/cli) share it through this accessor.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
