// Package detect queries the OS configuration for a keyboard layout hint.
//
// Probes run in a fixed order and the first hint that maps to a known
// layout wins. Every probe is best-effort: errors are logged at debug
// level and the next probe is tried.
package detect

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/Alia5/autotyper/internal/keymap"
	"github.com/Alia5/autotyper/internal/log"
)

// Probe returns a raw layout hint, or an error when its source is not
// available.
type Probe interface {
	Name() string
	Hint(ctx context.Context) (string, error)
}

// Runner executes an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

const probeTimeout = 2 * time.Second

// Detector runs probes in order.
type Detector struct {
	probes []Probe
	logger *slog.Logger
}

// New returns a detector over probes.
func New(logger *slog.Logger, probes ...Probe) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{probes: probes, logger: logger}
}

// Default returns the platform's probe order: on Linux the systemd-localed
// D-Bus property, GNOME input sources and localectl, then the locale
// environment everywhere.
func Default(logger *slog.Logger) *Detector {
	var probes []Probe
	if runtime.GOOS == "linux" {
		probes = append(probes,
			Locale1{},
			GSettings{Run: execRunner},
			Localectl{Run: execRunner},
		)
	}
	probes = append(probes, Env{Getenv: os.Getenv})
	return New(logger, probes...)
}

// Hint returns the first probe result that names a known layout, or ""
// when none does. It satisfies keymap.HintFunc.
func (d *Detector) Hint(ctx context.Context) string {
	for _, p := range d.probes {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		h, err := p.Hint(pctx)
		cancel()
		if err != nil {
			d.logger.Debug("layout probe failed", "probe", p.Name(), "error", err)
			continue
		}
		if name, ok := keymap.MatchHint(h); ok {
			d.logger.Debug("layout probe matched", "probe", p.Name(), "hint", h, "layout", name)
			return h
		}
		d.logger.Log(ctx, log.LevelTrace, "layout probe inconclusive", "probe", p.Name(), "hint", h)
	}
	return ""
}

// Locale1 reads X11Layout from org.freedesktop.locale1 on the system bus.
type Locale1 struct {
	// Object returns the locale1 bus object. Nil uses the shared system
	// bus connection.
	Object func() (dbus.BusObject, error)
}

func (Locale1) Name() string { return "locale1" }

func (l Locale1) Hint(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	object := l.Object
	if object == nil {
		object = systemLocale1
	}
	obj, err := object()
	if err != nil {
		return "", err
	}
	var v dbus.Variant
	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, "org.freedesktop.locale1", "X11Layout")
	if err := call.Store(&v); err != nil {
		return "", err
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", errors.New("X11Layout is not a string")
	}
	return s, nil
}

func systemLocale1() (dbus.BusObject, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	return conn.Object("org.freedesktop.locale1", "/org/freedesktop/locale1"), nil
}

// GSettings reads the GNOME input sources list.
type GSettings struct{ Run Runner }

func (GSettings) Name() string { return "gsettings" }

func (g GSettings) Hint(ctx context.Context) (string, error) {
	out, err := g.Run(ctx, "gsettings", "get", "org.gnome.desktop.input-sources", "sources")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Localectl reads the "X11 Layout" line of `localectl status`.
type Localectl struct{ Run Runner }

func (Localectl) Name() string { return "localectl" }

func (l Localectl) Hint(ctx context.Context) (string, error) {
	out, err := l.Run(ctx, "localectl", "status")
	if err != nil {
		return "", err
	}
	found := map[string]string{}
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, v, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if v != "" && v != "n/a" {
			found[strings.TrimSpace(key)] = v
		}
	}
	// X11 Layout is what graphical sessions use; the console keymap is
	// only a fallback.
	for _, key := range []string{"X11 Layout", "VC Keymap"} {
		if v, ok := found[key]; ok {
			return v, nil
		}
	}
	return "", errors.New("no layout in localectl output")
}

// Env reads the locale environment.
type Env struct{ Getenv func(string) string }

func (Env) Name() string { return "env" }

func (e Env) Hint(context.Context) (string, error) {
	for _, k := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := e.Getenv(k); v != "" {
			return v, nil
		}
	}
	return "", errors.New("locale environment not set")
}
