package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/Alia5/autotyper/internal/keymap"
)

// ScriptRunner runs a program with script fed on stdin.
type ScriptRunner func(ctx context.Context, script string, name string, args ...string) error

func execScript(ctx context.Context, script string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(script)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// OSAScript types through AppleScript's System Events. The terminal
// running autotyper needs the Accessibility permission.
type OSAScript struct {
	GOOS     string
	LookPath func(string) (string, error)
	Run      ScriptRunner
}

// NewOSAScript returns the osascript backend for the running OS.
func NewOSAScript() *OSAScript {
	return &OSAScript{GOOS: runtime.GOOS, LookPath: exec.LookPath, Run: execScript}
}

func (o *OSAScript) Name() string { return OSAScriptName }

func (o *OSAScript) Probe() error {
	if o.GOOS != "darwin" {
		return errors.New("osascript is only available on macOS")
	}
	if _, err := o.LookPath("osascript"); err != nil {
		return fmt.Errorf("osascript not found: %w", err)
	}
	return nil
}

func (o *OSAScript) Open(context.Context, Options) (Session, error) {
	return &osaSession{run: o.Run}, nil
}

type osaSession struct {
	run ScriptRunner
}

// Press sends the script on stdin so the character never shows up in the
// process list.
func (s *osaSession) Press(ctx context.Context, a Action) error {
	script, err := appleScript(a)
	if err != nil {
		return err
	}
	return s.run(ctx, script, "osascript", "-")
}

func (s *osaSession) Close() error { return nil }

// macKeyCodes maps evdev codes of non-printing keys to macOS virtual key
// codes.
var macKeyCodes = map[keymap.Keycode]int{
	keymap.KeyEnter:     36,
	keymap.KeyTab:       48,
	keymap.KeySpace:     49,
	keymap.KeyBackspace: 51,
	keymap.KeyEsc:       53,
	keymap.KeyKpEnter:   76,
	keymap.KeyLeft:      123,
	keymap.KeyRight:     124,
	keymap.KeyDown:      125,
	keymap.KeyUp:        126,
}

// appleModifiers renders a modifier set in AppleScript's vocabulary.
// AltGr is Option on a Mac keyboard.
func appleModifiers(m keymap.Modifier) string {
	var parts []string
	if m.Has(keymap.ModShift) {
		parts = append(parts, "shift down")
	}
	if m.Has(keymap.ModAltGr) {
		parts = append(parts, "option down")
	}
	if m.Has(keymap.ModCtrl) {
		parts = append(parts, "control down")
	}
	if len(parts) == 0 {
		return ""
	}
	return " using {" + strings.Join(parts, ", ") + "}"
}

const systemEvents = `tell application "System Events" to `

func appleScript(a Action) (string, error) {
	if a.Rune != 0 && unicode.IsPrint(a.Rune) {
		return systemEvents + "keystroke " + appleQuote(string(a.Rune)), nil
	}
	if a.Spec.IsEscape() {
		return "", fmt.Errorf("cannot type U+%04X through System Events", a.Spec.Codepoint)
	}
	code, ok := macKeyCodes[a.Spec.Code]
	if !ok {
		return "", fmt.Errorf("no macOS key code for %s", a.Spec.Code)
	}
	return fmt.Sprintf("%skey code %d%s", systemEvents, code, appleModifiers(a.Spec.Mods)), nil
}

func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
