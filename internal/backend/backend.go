// Package backend injects resolved key strokes into the operating system.
//
// Three variants exist: uinput (Linux kernel input device), osascript
// (macOS System Events) and robotgo (cross-platform screen automation).
// Select probes them once, in that order, before typing starts.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Alia5/autotyper/internal/keymap"
)

// Backend names.
const (
	Auto          = "auto"
	UInputName    = "uinput"
	OSAScriptName = "osascript"
	RobotgoName   = "robotgo"
)

// aliases maps accepted selector names onto backend names.
var aliases = map[string]string{
	"pyautogui": RobotgoName,
}

// Action is one character's worth of key input.
type Action struct {
	// Rune is the character being typed, or 0 for keys without one such
	// as the final Enter.
	Rune    rune
	Spec    keymap.KeySpec
	Strokes []keymap.Stroke
}

// Options tune a session.
type Options struct {
	// Rate is the per-keystroke delay. Sessions use it for pauses inside
	// multi-stroke actions; the pause after each action is the caller's.
	Rate       time.Duration
	Prime      bool
	PrimeDelay time.Duration
	DeviceName string
	Logger     *slog.Logger
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Sleep == nil {
		o.Sleep = Sleep
	}
	if o.DeviceName == "" {
		o.DeviceName = "autotyper-virtual-kbd"
	}
	return o
}

// Backend is an injection strategy.
type Backend interface {
	Name() string
	// Probe returns nil when the backend can be used in this environment.
	Probe() error
	Open(ctx context.Context, opts Options) (Session, error)
}

// Session is an open backend. Close must be called exactly once.
type Session interface {
	Press(ctx context.Context, a Action) error
	Close() error
}

// ErrUnknownBackend is returned by Select for names it does not know.
var ErrUnknownBackend = errors.New("unknown backend")

// Attempt records why a backend was not usable.
type Attempt struct {
	Name string
	Err  error
}

// UnavailableError reports that no backend could be activated.
type UnavailableError struct {
	Tried []Attempt
}

func (e *UnavailableError) Error() string {
	parts := make([]string, 0, len(e.Tried))
	for _, a := range e.Tried {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Name, a.Err))
	}
	return "no usable backend (tried " + strings.Join(parts, "; ") + ")"
}

// Defaults returns the candidates in priority order.
func Defaults() []Backend {
	return []Backend{NewUInput(), NewOSAScript(), NewRobotgo()}
}

// Names returns the selector names accepted by Select.
func Names() []string {
	return []string{Auto, UInputName, OSAScriptName, RobotgoName, "pyautogui"}
}

// Select returns the backend to use. With "auto" (or "") the first
// candidate whose probe succeeds wins. A named backend that fails its
// probe is an error; there is no fallback past an explicit choice.
func Select(name string, candidates []Backend) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	if name == Auto || name == "" {
		var tried []Attempt
		for _, b := range candidates {
			err := b.Probe()
			if err == nil {
				return b, nil
			}
			tried = append(tried, Attempt{Name: b.Name(), Err: err})
		}
		return nil, &UnavailableError{Tried: tried}
	}

	for _, b := range candidates {
		if b.Name() != name {
			continue
		}
		if err := b.Probe(); err != nil {
			return nil, &UnavailableError{Tried: []Attempt{{Name: name, Err: err}}}
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
