package surfio

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/surfio/internal/codec"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with loads and saves.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for surfio and its internal codecs.
// By default, surfio produces no log output. Pass nil to restore the
// default silent behavior.
//
// Log levels used by surfio:
//   - [slog.LevelDebug]: pipeline details (source size, scale, crop offset, encoder)
//   - [slog.LevelWarn]: non-fatal issues (a partial output file could not be removed)
//
// Example:
//
//	surfio.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	codec.SetLogger(l)
}

// Logger returns the current logger used by surfio.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
