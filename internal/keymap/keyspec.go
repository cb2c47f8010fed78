package keymap

import (
	"fmt"
	"strings"
)

// Modifier is a bitmask of the modifiers a key spec holds down.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAltGr
	ModCtrl
)

// modifierNames is ordered the way specs are rendered.
var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModAltGr, "altgr"},
	{ModCtrl, "ctrl"},
	{ModShift, "shift"},
}

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool { return m&m2 == m2 }

func (m Modifier) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifier parses a single modifier token (shift, altgr, ctrl).
func ParseModifier(tok string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "shift":
		return ModShift, nil
	case "altgr":
		return ModAltGr, nil
	case "ctrl":
		return ModCtrl, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q", tok)
	}
}

// Kind tells which of the two KeySpec forms applies.
type Kind uint8

const (
	KindKey Kind = iota
	KindUnicode
)

// KeySpec is the resolved instruction for producing one character: either
// a key code with modifiers, or a Unicode escape for a codepoint.
// Use Key or Unicode to build one; the zero value is KEY_RESERVED.
type KeySpec struct {
	Kind      Kind
	Code      Keycode
	Mods      Modifier
	Codepoint rune
}

// Key returns a key-form spec.
func Key(code Keycode, mods Modifier) KeySpec {
	return KeySpec{Kind: KindKey, Code: code, Mods: mods}
}

// Unicode returns an escape-form spec for r.
func Unicode(r rune) KeySpec {
	return KeySpec{Kind: KindUnicode, Codepoint: r}
}

// IsEscape reports whether the spec uses the Unicode escape form.
func (s KeySpec) IsEscape() bool { return s.Kind == KindUnicode }

// Stroke returns the key-form spec as a stroke.
func (s KeySpec) Stroke() Stroke { return Stroke{Code: s.Code, Mods: s.Mods} }

func (s KeySpec) String() string {
	if s.IsEscape() {
		return fmt.Sprintf("unicode(U+%04X)", s.Codepoint)
	}
	return s.Stroke().String()
}

// Stroke is one key tap performed while holding Mods.
type Stroke struct {
	Code Keycode
	Mods Modifier
}

func (st Stroke) String() string {
	if st.Mods == 0 {
		return st.Code.String()
	}
	return st.Code.String() + "+" + st.Mods.String()
}

// ParseStroke parses the override grammar <MAIN_KEY>[+<MODIFIER>]*.
// Modifiers are case-insensitive and may appear in any order.
func ParseStroke(raw string) (Stroke, error) {
	parts := strings.Split(strings.TrimSpace(raw), "+")
	main := strings.TrimSpace(parts[0])
	if main == "" {
		return Stroke{}, fmt.Errorf("empty main key in %q", raw)
	}
	code, ok := KeyByName(main)
	if !ok {
		return Stroke{}, fmt.Errorf("unknown key %q", main)
	}
	st := Stroke{Code: code}
	for _, p := range parts[1:] {
		mod, err := ParseModifier(p)
		if err != nil {
			return Stroke{}, err
		}
		st.Mods |= mod
	}
	return st, nil
}

// ParseSpec parses a raw override string into a key-form KeySpec.
func ParseSpec(raw string) (KeySpec, error) {
	st, err := ParseStroke(raw)
	if err != nil {
		return KeySpec{}, err
	}
	return Key(st.Code, st.Mods), nil
}
