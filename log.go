package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"
)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// discardLogger is used when a surface is built without one.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// logIsErr logs err at lvl, attributed to the caller, and reports whether
// err was non-nil.
func logIsErr(logger *slog.Logger, lvl slog.Level, err error, args ...any) bool {
	if err == nil {
		return false
	}
	if logger == nil || !logger.Enabled(context.Background(), lvl) {
		return true
	}
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, err.Error(), pcs[0])
	r.Add(args...)
	_ = logger.Handler().Handle(context.Background(), r)
	return true
}
