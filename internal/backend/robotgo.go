package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"unicode"

	"github.com/Alia5/autotyper/internal/keymap"
)

// automationDriver is the part of robotgo the session uses.
type automationDriver interface {
	TypeStr(s string)
	KeyTap(key string, mods []string) error
}

// Robotgo synthesizes application-level input events through robotgo.
// It is the last resort: it needs cgo at build time and a display at
// run time.
type Robotgo struct {
	drv        automationDriver
	hasDisplay func() bool
}

// NewRobotgo returns the screen automation backend.
func NewRobotgo() *Robotgo {
	return &Robotgo{drv: defaultAutomationDriver(), hasDisplay: hasDisplay}
}

func hasDisplay() bool {
	if runtime.GOOS != "linux" && runtime.GOOS != "freebsd" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func (r *Robotgo) Name() string { return RobotgoName }

func (r *Robotgo) Probe() error {
	if r.drv == nil {
		return errors.New("built without cgo, screen automation is not compiled in")
	}
	if !r.hasDisplay() {
		return errors.New("no display (DISPLAY/WAYLAND_DISPLAY unset)")
	}
	return nil
}

func (r *Robotgo) Open(context.Context, Options) (Session, error) {
	if r.drv == nil {
		return nil, errors.New("screen automation is not compiled in")
	}
	return &robotgoSession{drv: r.drv}, nil
}

type robotgoSession struct {
	drv automationDriver
}

// robotgoKeys maps evdev codes of non-printing keys to robotgo names.
var robotgoKeys = map[keymap.Keycode]string{
	keymap.KeyEnter:     "enter",
	keymap.KeyKpEnter:   "enter",
	keymap.KeyTab:       "tab",
	keymap.KeySpace:     "space",
	keymap.KeyBackspace: "backspace",
	keymap.KeyEsc:       "esc",
	keymap.KeyLeft:      "left",
	keymap.KeyRight:     "right",
	keymap.KeyUp:        "up",
	keymap.KeyDown:      "down",
}

func robotgoModifiers(m keymap.Modifier) []string {
	var out []string
	if m.Has(keymap.ModShift) {
		out = append(out, "shift")
	}
	if m.Has(keymap.ModAltGr) {
		out = append(out, "ralt")
	}
	if m.Has(keymap.ModCtrl) {
		out = append(out, "ctrl")
	}
	return out
}

func (s *robotgoSession) Press(_ context.Context, a Action) error {
	if a.Rune != 0 && unicode.IsPrint(a.Rune) {
		s.drv.TypeStr(string(a.Rune))
		return nil
	}
	if a.Spec.IsEscape() {
		return fmt.Errorf("cannot type U+%04X through screen automation", a.Spec.Codepoint)
	}
	name, ok := robotgoKeys[a.Spec.Code]
	if !ok {
		return fmt.Errorf("no robotgo key for %s", a.Spec.Code)
	}
	return s.drv.KeyTap(name, robotgoModifiers(a.Spec.Mods))
}

func (s *robotgoSession) Close() error { return nil }
