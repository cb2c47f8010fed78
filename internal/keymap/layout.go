// Package keymap translates characters into key strokes for a given
// keyboard layout.
//
// Layouts are static tables built once at init. Derived layouts (override
// merges, keypad digits) are copies; the built-in tables are never mutated.
package keymap

import (
	"fmt"
	"sort"
)

// Layout names accepted by Lookup.
const (
	LayoutUS       = "us"
	LayoutENIN     = "en-in"
	LayoutFRAzerty = "fr-azerty"
	LayoutOVH      = "ovh"
	LayoutAuto     = "auto"
)

// Layout is a named character to KeySpec mapping.
type Layout struct {
	name        string
	description string
	keys        map[rune]KeySpec
	preferEsc   map[rune]bool
	keypadOnly  bool
}

// Name returns the layout identifier.
func (l *Layout) Name() string { return l.name }

// Description returns a human readable summary of the layout.
func (l *Layout) Description() string { return l.description }

// Lookup returns the layout's own spec for r.
func (l *Layout) Lookup(r rune) (KeySpec, bool) {
	s, ok := l.keys[r]
	return s, ok
}

// Len returns the number of mapped characters.
func (l *Layout) Len() int { return len(l.keys) }

// Mapping returns a copy of the character table.
func (l *Layout) Mapping() map[rune]KeySpec {
	out := make(map[rune]KeySpec, len(l.keys))
	for r, s := range l.keys {
		out[r] = s
	}
	return out
}

// Chars returns the mapped characters sorted by codepoint.
func (l *Layout) Chars() []rune {
	out := make([]rune, 0, len(l.keys))
	for r := range l.keys {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PreferEscape returns the characters this layout types through the
// Unicode escape by default, sorted by codepoint.
func (l *Layout) PreferEscape() []rune {
	out := make([]rune, 0, len(l.preferEsc))
	for r := range l.preferEsc {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// KeypadDigits reports whether digits are typed on the numeric keypad.
func (l *Layout) KeypadDigits() bool { return l.keypadOnly }

func (l *Layout) derive() *Layout {
	d := &Layout{
		name:        l.name,
		description: l.description,
		keys:        l.Mapping(),
		preferEsc:   make(map[rune]bool, len(l.preferEsc)),
		keypadOnly:  l.keypadOnly,
	}
	for r := range l.preferEsc {
		d.preferEsc[r] = true
	}
	return d
}

// WithOverrides returns a copy of l where every entry of over replaces
// the built-in spec for that character.
func (l *Layout) WithOverrides(over map[rune]KeySpec) *Layout {
	d := l.derive()
	for r, s := range over {
		d.keys[r] = s
	}
	return d
}

var keypadDigits = [10]Keycode{KeyKp0, KeyKp1, KeyKp2, KeyKp3, KeyKp4, KeyKp5, KeyKp6, KeyKp7, KeyKp8, KeyKp9}

// WithKeypadDigits returns a copy of l typing 0-9 on the numeric keypad.
// Keypad digits do not depend on the layout's shift state, which makes
// them the safer choice on AZERTY boards.
func (l *Layout) WithKeypadDigits() *Layout {
	if l.keypadOnly {
		return l
	}
	d := l.derive()
	for i, code := range keypadDigits {
		d.keys[rune('0'+i)] = Key(code, 0)
	}
	d.keypadOnly = true
	return d
}

var registry = map[string]*Layout{}

func register(l *Layout) {
	if _, dup := registry[l.name]; dup {
		panic("keymap: duplicate layout " + l.name)
	}
	registry[l.name] = l
}

// Lookup returns the built-in layout with the given name.
func Lookup(name string) (*Layout, error) {
	l, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q (known: %v)", name, Names())
	}
	return l, nil
}

// Names returns the built-in layout names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
