package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/autotyper/internal/backend"
	"github.com/Alia5/autotyper/internal/detect"
	"github.com/Alia5/autotyper/internal/keymap"
	"github.com/Alia5/autotyper/internal/typer"
)

// Type prompts for a secret and types it into the focused window.
type Type struct {
	Wait    float64 `short:"w" help:"Seconds to wait before typing" default:"5" env:"AUTOTYPER_WAIT"`
	Enter   bool    `short:"e" help:"Press Enter after the secret" env:"AUTOTYPER_ENTER"`
	Rate    float64 `short:"r" help:"Seconds between keystrokes" default:"0.06" env:"AUTOTYPER_RATE"`
	Layout  string  `help:"Keyboard layout: auto, us, en-in, fr-azerty or ovh" default:"auto" env:"AUTOTYPER_LAYOUT"`
	Backend string  `help:"Injection backend: auto, uinput, osascript, robotgo or pyautogui" default:"auto" env:"AUTOTYPER_BACKEND"`

	Override     string `help:"JSON object mapping characters to key specs, e.g. '{\"{\":\"KEY_8+altgr+shift\"}'" env:"AUTOTYPER_OVERRIDE"`
	OverrideFile string `help:"Override file (.json, .yaml, .yml or .toml); --override entries win" env:"AUTOTYPER_OVERRIDE_FILE"`

	DumpLayout      bool `help:"Print the effective layout and exit"`
	ShowUnsupported bool `help:"Report how many characters need the Unicode escape"`

	Prime      bool    `help:"Tap Shift once after creating the virtual keyboard" default:"true" negatable:""`
	PrimeDelay float64 `help:"Seconds to wait before and after priming" default:"0.25"`

	UnicodeFallback   bool   `help:"Type unmapped characters with the Unicode hex escape" default:"true" negatable:""`
	UnicodeOnly       string `help:"Type only these characters through the Unicode escape (replaces the layout's default set)"`
	UnicodeExcept     string `help:"Remove these characters from the layout's default Unicode set"`
	Numpad            bool   `help:"Type digits on the numeric keypad (always on for ovh)" default:"true" negatable:""`
	UnicodeTrigger    string `help:"Key that starts a Unicode escape" default:"KEY_U+ctrl+shift"`
	UnicodeTerminator string `help:"Key that ends a Unicode escape" default:"KEY_SPACE"`

	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	hint     keymap.HintFunc
	backends []backend.Backend
	sleep    func(ctx context.Context, d time.Duration) error
}

// Run is called by Kong when the type command is executed.
func (t *Type) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return t.Execute(ctx, logger)
}

func seconds(name string, v float64) (time.Duration, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, typer.Configf("--%s must be a finite number of seconds (got %g)", name, v)
	}
	if v < 0 {
		return 0, typer.Configf("--%s must not be negative (got %g)", name, v)
	}
	return time.Duration(v * float64(time.Second)), nil
}

func (t *Type) defaults(logger *slog.Logger) {
	if t.stdin == nil {
		t.stdin = os.Stdin
	}
	if t.stdout == nil {
		t.stdout = os.Stdout
	}
	if t.stderr == nil {
		t.stderr = os.Stderr
	}
	if t.hint == nil {
		t.hint = detect.Default(logger).Hint
	}
	if t.backends == nil {
		t.backends = backend.Defaults()
	}
	if t.sleep == nil {
		t.sleep = backend.Sleep
	}
}

// Execute runs the command with ctx. Configuration problems are reported
// before the secret is read.
func (t *Type) Execute(ctx context.Context, logger *slog.Logger) error {
	t.defaults(logger)

	wait, err := seconds("wait", t.Wait)
	if err != nil {
		return err
	}
	rate, err := seconds("rate", t.Rate)
	if err != nil {
		return err
	}
	primeDelay, err := seconds("prime-delay", t.PrimeDelay)
	if err != nil {
		return err
	}
	esc, err := keymap.ParseEscape(t.UnicodeTrigger, t.UnicodeTerminator)
	if err != nil {
		return &typer.ConfigError{Err: err}
	}
	raw, err := t.overrides()
	if err != nil {
		return err
	}

	layout, err := keymap.ResolveLayout(ctx, t.Layout, t.hint)
	if err != nil {
		return &typer.ConfigError{Err: err}
	}
	if t.Numpad || layout.Name() == keymap.LayoutOVH {
		layout = layout.WithKeypadDigits()
	}
	var resolverOpts []keymap.ResolverOption
	if t.UnicodeFallback {
		resolverOpts = append(resolverOpts, keymap.WithPreferEscape(t.preferEscape(layout)))
	}
	resolver := keymap.NewResolver(layout, raw, resolverOpts...)
	for _, w := range resolver.Warnings() {
		logger.Warn("override ignored", "char", string(w.Char), "spec", w.Raw, "error", w.Err)
	}

	if t.DumpLayout {
		return keymap.Dump(t.stdout, resolver.Effective())
	}

	b, err := backend.Select(t.Backend, t.backends)
	if err != nil {
		if errors.Is(err, backend.ErrUnknownBackend) {
			return &typer.ConfigError{Err: err}
		}
		return &typer.BackendUnavailableError{Err: err}
	}
	logger.Debug("backend selected", "backend", b.Name(), "layout", layout.Name())

	secret, err := t.readSecret()
	if err != nil {
		return err
	}
	defer clear(secret)

	if t.ShowUnsupported {
		t.reportUnsupported(logger, secret, resolver)
	}

	logger.Info("Focus the target window", "wait", wait)
	if err := t.sleep(ctx, wait); err != nil {
		logger.Info("Cancelled, nothing typed")
		return nil
	}

	report, err := typer.TypeText(ctx, secret, resolver, b, typer.Options{
		Rate:              rate,
		AppendEnter:       t.Enter,
		NoUnicodeFallback: !t.UnicodeFallback,
		Escape:            &esc,
		Session: backend.Options{
			Prime:      t.Prime,
			PrimeDelay: primeDelay,
			DeviceName: "autotyper-virtual-kbd-" + layout.Name(),
		},
		Logger: logger,
		Sleep:  t.sleep,
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("typing interrupted after %d characters: %w", report.Processed, err)
		}
		return err
	}

	digits := "top-row"
	if layout.KeypadDigits() {
		digits = "numpad"
	}
	logger.Info("Done",
		"backend", report.Backend,
		"layout", report.Layout,
		"digits", digits,
		"chars", report.Processed,
		"escaped", report.Escaped,
		"failed", report.Failed,
	)
	return report.Err()
}

// overrides merges the override file with inline --override entries.
func (t *Type) overrides() (map[rune]string, error) {
	raw := map[rune]string{}
	if t.OverrideFile != "" {
		m, err := typer.LoadOverrideFile(t.OverrideFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(raw, m)
	}
	if t.Override != "" {
		m, err := typer.ParseOverrideJSON(t.Override)
		if err != nil {
			return nil, err
		}
		maps.Copy(raw, m)
	}
	return raw, nil
}

// preferEscape returns the characters typed through the escape even
// though the layout maps them.
func (t *Type) preferEscape(l *keymap.Layout) []rune {
	if t.UnicodeOnly != "" {
		return []rune(t.UnicodeOnly)
	}
	except := map[rune]bool{}
	for _, r := range t.UnicodeExcept {
		except[r] = true
	}
	var out []rune
	for _, r := range l.PreferEscape() {
		if !except[r] {
			out = append(out, r)
		}
	}
	return out
}

// reportUnsupported logs only a count at info level. The characters are
// part of the secret.
func (t *Type) reportUnsupported(logger *slog.Logger, secret []rune, r *keymap.Resolver) {
	unsupported := typer.Unsupported(secret, r)
	if len(unsupported) == 0 {
		logger.Info("All characters have a key mapping")
		return
	}
	if t.UnicodeFallback {
		logger.Warn("Characters will be typed with the Unicode escape", "distinct", len(unsupported))
	} else {
		logger.Warn("Characters have no key mapping and will be skipped", "distinct", len(unsupported))
	}
}

// readSecret reads the secret without echo from a terminal, or the first
// line of stdin otherwise.
func (t *Type) readSecret() ([]rune, error) {
	var buf []byte
	var err error
	if f, ok := t.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(t.stderr, "Password (hidden): ")
		buf, err = term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(t.stderr)
	} else {
		buf, err = readLine(t.stdin)
	}
	defer clear(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	secret := bytes.Runes(bytes.TrimRight(buf, "\r\n"))
	if len(secret) == 0 {
		return nil, typer.Configf("empty secret, nothing to type")
	}
	return secret, nil
}

// readLine reads up to the first newline one byte at a time, so no
// buffered copy of the secret outlives the call and the rest of r stays
// unread. Storage left behind by growth is wiped.
func readLine(r io.Reader) ([]byte, error) {
	var one [1]byte
	defer clear(one[:])
	buf := make([]byte, 0, 128)
	for {
		n, err := r.Read(one[:])
		if n == 1 {
			if one[0] == '\n' {
				return buf, nil
			}
			if len(buf) == cap(buf) {
				grown := make([]byte, len(buf), 2*cap(buf))
				copy(grown, buf)
				clear(buf)
				buf = grown
			}
			buf = append(buf, one[0])
		}
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			return buf, err
		}
	}
}
