// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vcl

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vcl and all its sub-packages.
// By default, vcl produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vcl:
//   - [slog.LevelDebug]: frame pacing, arena usage, framebuffer cache misses
//   - [slog.LevelInfo]: device selection, driver version strings
//   - [slog.LevelWarn]: cache hash collisions, release errors during Close,
//     low and medium severity driver debug messages
//   - [slog.LevelError]: high severity driver debug messages
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	vcl.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by vcl.
// Sub-packages (engine/, backend/...) call this at log time so that a
// later SetLogger takes effect without re-creating any engine or device.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
