// Package typer drives a backend through a secret one character at a
// time and reports what happened.
package typer

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/Alia5/autotyper/internal/backend"
	"github.com/Alia5/autotyper/internal/keymap"
)

// Failure reasons.
const (
	ReasonNoMapping = "no key mapping and unicode fallback disabled"
	ReasonExpand    = "cannot expand keystrokes"
	ReasonBackend   = "backend rejected keystroke"
)

// Options configure a typing run.
type Options struct {
	// Rate is the pause after each character.
	Rate        time.Duration
	AppendEnter bool
	// NoUnicodeFallback turns characters without a key mapping into
	// failures instead of typing them through the escape. Characters the
	// resolver prefers to escape are typed with their layout key.
	NoUnicodeFallback bool
	// Escape defaults to keymap.DefaultEscape.
	Escape  *keymap.EscapeConvention
	Session backend.Options
	Logger  *slog.Logger
	Sleep   func(ctx context.Context, d time.Duration) error
}

// Report summarizes a run. It never contains the secret.
type Report struct {
	Backend   string
	Layout    string
	Processed int
	Escaped   int
	Failed    int
	Failures  []KeystrokeFailure
	Warnings  []keymap.OverrideWarning
	// BackendFailed is set when the session could not be opened, in which
	// case nothing was typed.
	BackendFailed bool
	EnterSent     bool
}

// Err returns a KeystrokeFailuresError when any character failed.
func (r Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return &KeystrokeFailuresError{Failures: r.Failures}
}

func (r *Report) fail(pos int, reason string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, KeystrokeFailure{Pos: pos, Reason: reason, Err: err})
}

// TypeText types secret into the focused window through b. Per-character
// failures are recorded in the report and typing continues; only a
// backend that cannot be opened or a cancelled ctx stop the run.
//
// secret is zeroed before TypeText returns.
func TypeText(ctx context.Context, secret []rune, r *keymap.Resolver, b backend.Backend, opts Options) (Report, error) {
	defer clear(secret)

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sleep == nil {
		opts.Sleep = backend.Sleep
	}
	esc := keymap.DefaultEscape
	if opts.Escape != nil {
		esc = *opts.Escape
	}
	sessOpts := opts.Session
	sessOpts.Rate = opts.Rate
	if sessOpts.Logger == nil {
		sessOpts.Logger = opts.Logger
	}
	if sessOpts.Sleep == nil {
		sessOpts.Sleep = opts.Sleep
	}

	layout := r.Effective()
	report := Report{
		Backend:  b.Name(),
		Layout:   r.Layout().Name(),
		Warnings: r.Warnings(),
	}
	for _, w := range report.Warnings {
		opts.Logger.Warn("override ignored", "char", string(w.Char), "spec", w.Raw, "error", w.Err)
	}

	sess, err := b.Open(ctx, sessOpts)
	if err != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.BackendFailed = true
		return report, &BackendUnavailableError{Err: err}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			opts.Logger.Error("failed to close backend session", "backend", b.Name(), "error", err)
		}
	}()

	opts.Logger.Debug("typing", "backend", b.Name(), "layout", report.Layout, "chars", len(secret))

	for i, c := range secret {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Processed++
		spec := r.Resolve(c)
		if spec.IsEscape() && opts.NoUnicodeFallback {
			// Without the escape a preferred rune still has its key.
			mapped, ok := layout.Lookup(c)
			if !ok || mapped.IsEscape() {
				report.fail(i, ReasonNoMapping, nil)
				opts.Logger.Warn("character skipped", "pos", i, "reason", ReasonNoMapping)
				continue
			}
			spec = mapped
		}
		if spec.IsEscape() {
			report.Escaped++
		}
		if err := press(ctx, sess, layout, esc, c, spec); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			reason := ReasonBackend
			var expandErr *expandError
			if errors.As(err, &expandErr) {
				reason = ReasonExpand
			}
			report.fail(i, reason, err)
			opts.Logger.Warn("character failed", "pos", i, "reason", reason)
		}
		if err := opts.Sleep(ctx, opts.Rate); err != nil {
			return report, err
		}
	}

	if opts.AppendEnter {
		if err := press(ctx, sess, layout, esc, 0, keymap.Key(keymap.KeyEnter, 0)); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			report.fail(len(secret), ReasonBackend, err)
			opts.Logger.Warn("enter failed", "reason", ReasonBackend)
		} else {
			report.EnterSent = true
		}
	}
	return report, nil
}

type expandError struct{ err error }

func (e *expandError) Error() string { return e.err.Error() }
func (e *expandError) Unwrap() error { return e.err }

func press(ctx context.Context, sess backend.Session, layout *keymap.Layout, esc keymap.EscapeConvention, c rune, spec keymap.KeySpec) error {
	strokes, err := layout.Expand(spec, esc)
	if err != nil {
		return &expandError{err: err}
	}
	return sess.Press(ctx, backend.Action{Rune: c, Spec: spec, Strokes: strokes})
}

// Unsupported returns the distinct runes of secret that r would type
// through the Unicode escape, sorted by codepoint.
func Unsupported(secret []rune, r *keymap.Resolver) []rune {
	seen := map[rune]bool{}
	var out []rune
	for _, c := range secret {
		if seen[c] {
			continue
		}
		seen[c] = true
		if r.Resolve(c).IsEscape() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
