package keymap

import (
	"fmt"
	"strconv"
)

// EscapeConvention describes how the target application accepts a
// Unicode codepoint typed as hex digits: a trigger chord, the lowercase
// hex digits, then a terminator.
type EscapeConvention struct {
	Trigger    Stroke
	Terminator Stroke
}

// DefaultEscape is the GTK/IBus convention: Ctrl+Shift+U, hex, Space.
var DefaultEscape = EscapeConvention{
	Trigger:    Stroke{Code: KeyU, Mods: ModCtrl | ModShift},
	Terminator: Stroke{Code: KeySpace},
}

// ParseEscape builds a convention from two stroke strings in the
// override grammar.
func ParseEscape(trigger, terminator string) (EscapeConvention, error) {
	trig, err := ParseStroke(trigger)
	if err != nil {
		return EscapeConvention{}, fmt.Errorf("unicode trigger: %w", err)
	}
	term, err := ParseStroke(terminator)
	if err != nil {
		return EscapeConvention{}, fmt.Errorf("unicode terminator: %w", err)
	}
	return EscapeConvention{Trigger: trig, Terminator: term}, nil
}

// Expand turns spec into the strokes to send. Hex digits of an escape
// are typed with this layout's own mapping so that, for example, AZERTY
// digits get their Shift. A digit missing from the layout falls back to
// the bare KEY_<digit> code.
func (l *Layout) Expand(spec KeySpec, esc EscapeConvention) ([]Stroke, error) {
	if !spec.IsEscape() {
		return []Stroke{spec.Stroke()}, nil
	}
	hex := strconv.FormatInt(int64(spec.Codepoint), 16)
	out := make([]Stroke, 0, len(hex)+2)
	out = append(out, esc.Trigger)
	for _, d := range hex {
		if s, ok := l.Lookup(d); ok && !s.IsEscape() {
			out = append(out, s.Stroke())
			continue
		}
		code, ok := KeyByName(string(d))
		if !ok {
			return nil, fmt.Errorf("no key for hex digit %q", d)
		}
		out = append(out, Stroke{Code: code})
	}
	out = append(out, esc.Terminator)
	return out, nil
}
