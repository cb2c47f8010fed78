// Package log builds the process logger.
//
// Without a log file, records below error go to stdout and errors go to
// stderr, so a wrapper script can separate them. With a file, everything
// is written both to stderr and to the file.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below Debug and used for per-probe detail.
const LevelTrace slog.Level = -8

// Config is embedded in the CLI with the "log." prefix.
type Config struct {
	Level string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"AUTOTYPER_LOG_LEVEL"`
	File  string `help:"Also write logs to this file (truncated)" env:"AUTOTYPER_LOG_FILE"`
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends records to every handler that accepts them.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// levelFilter passes only records whose level satisfies pass.
type levelFilter struct {
	pass func(slog.Level) bool
	h    slog.Handler
}

func (f levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.pass(level) && f.h.Enabled(ctx, level)
}

func (f levelFilter) Handle(ctx context.Context, r slog.Record) error {
	if !f.pass(r.Level) {
		return nil
	}
	return f.h.Handle(ctx, r)
}

func (f levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithAttrs(attrs)}
}

func (f levelFilter) WithGroup(name string) slog.Handler {
	return levelFilter{pass: f.pass, h: f.h.WithGroup(name)}
}

// NewLogger builds a logger writing to stdout/stderr as described in the
// package doc, plus w when non-nil.
func NewLogger(level slog.Level, stdout, stderr, w io.Writer) *slog.Logger {
	var hs fanout
	if w == nil {
		hs = append(hs,
			levelFilter{
				pass: func(l slog.Level) bool { return l < slog.LevelError },
				h:    slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: level}),
			},
			levelFilter{
				pass: func(l slog.Level) bool { return l >= slog.LevelError },
				h:    slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelError}),
			},
		)
	} else {
		hs = append(hs,
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
		)
	}
	return slog.New(hs)
}

// SetupLogger builds the process logger from c. The returned closers must
// be closed on exit.
func SetupLogger(c Config) (*slog.Logger, []io.Closer, error) {
	if c.File == "" {
		return NewLogger(ParseLevel(c.Level), os.Stdout, os.Stderr, nil), nil, nil
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(ParseLevel(c.Level), os.Stdout, os.Stderr, f), []io.Closer{f}, nil
}
