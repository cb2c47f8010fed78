package keymap

import (
	"fmt"
	"sort"
)

// OverrideWarning reports an override entry that could not be parsed.
// The character falls back to the layout or the Unicode escape.
type OverrideWarning struct {
	Char rune
	Raw  string
	Err  error
}

func (w OverrideWarning) Error() string {
	return fmt.Sprintf("override for %q (%q) ignored: %v", w.Char, w.Raw, w.Err)
}

func (w OverrideWarning) Unwrap() error { return w.Err }

// ParseOverrides parses each raw entry independently. Entries that fail
// are left out of the result and reported as warnings, sorted by
// character.
func ParseOverrides(raw map[rune]string) (map[rune]KeySpec, []OverrideWarning) {
	specs := make(map[rune]KeySpec, len(raw))
	var warnings []OverrideWarning
	for r, s := range raw {
		spec, err := ParseSpec(s)
		if err != nil {
			warnings = append(warnings, OverrideWarning{Char: r, Raw: s, Err: err})
			continue
		}
		specs[r] = spec
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Char < warnings[j].Char })
	return specs, warnings
}

// Resolver turns characters into KeySpecs for one layout.
type Resolver struct {
	layout    *Layout
	overrides map[rune]KeySpec
	prefer    map[rune]bool
	warnings  []OverrideWarning
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPreferEscape makes the resolver type runes through the Unicode
// escape even when the layout maps them. Overrides still take precedence.
func WithPreferEscape(runes []rune) ResolverOption {
	return func(r *Resolver) {
		for _, c := range runes {
			r.prefer[c] = true
		}
	}
}

// NewResolver parses raw overrides and returns a resolver for layout.
// Parse failures are kept as warnings, see Warnings.
func NewResolver(layout *Layout, raw map[rune]string, opts ...ResolverOption) *Resolver {
	specs, warnings := ParseOverrides(raw)
	r := &Resolver{
		layout:    layout,
		overrides: specs,
		prefer:    map[rune]bool{},
		warnings:  warnings,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Layout returns the resolver's base layout.
func (r *Resolver) Layout() *Layout { return r.layout }

// Warnings returns the override entries that failed to parse.
func (r *Resolver) Warnings() []OverrideWarning { return r.warnings }

// Resolve returns the KeySpec for c: a parsed override, then the escape
// for preferred runes, then the layout entry, then the Unicode escape.
func (r *Resolver) Resolve(c rune) KeySpec {
	if s, ok := r.overrides[c]; ok {
		return s
	}
	if r.prefer[c] {
		return Unicode(c)
	}
	if s, ok := r.layout.Lookup(c); ok {
		return s
	}
	return Unicode(c)
}

// Effective returns the layout as this resolver types it: parsed
// overrides merged in and the escape-preferred set replaced by the
// resolver's own, minus overridden characters.
func (r *Resolver) Effective() *Layout {
	d := r.layout.WithOverrides(r.overrides)
	clear(d.preferEsc)
	for c := range r.prefer {
		if _, ok := r.overrides[c]; !ok {
			d.preferEsc[c] = true
		}
	}
	return d
}

// Resolve resolves a single character against layout and raw overrides.
func Resolve(c rune, layout *Layout, raw map[rune]string) (KeySpec, []OverrideWarning) {
	r := NewResolver(layout, raw)
	return r.Resolve(c), r.Warnings()
}
