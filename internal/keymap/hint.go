package keymap

import (
	"context"
	"strings"
)

// HintFunc returns a best-effort layout hint from the OS configuration,
// for example an xkb layout list ("fr,us"), a gsettings source list or a
// locale ("fr_FR.UTF-8"). An empty hint means nothing was found.
type HintFunc func(ctx context.Context) string

// MatchHint maps a raw OS hint to a built-in layout name. The first
// recognised token wins.
func MatchHint(hint string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return "", false
	}
	if strings.Contains(h, "english (india)") {
		return LayoutENIN, true
	}
	for _, tok := range strings.FieldsFunc(h, isHintSeparator) {
		switch {
		case tok == "ovh":
			return LayoutOVH, true
		case tok == "fr" || strings.HasPrefix(tok, "fr_") || strings.HasPrefix(tok, "fr-") || tok == "azerty":
			return LayoutFRAzerty, true
		case tok == "in" || strings.HasPrefix(tok, "en_in") || strings.HasPrefix(tok, "en-in"):
			return LayoutENIN, true
		case tok == "us" || strings.HasPrefix(tok, "en_us") || strings.HasPrefix(tok, "en-us"):
			return LayoutUS, true
		}
	}
	return "", false
}

func isHintSeparator(r rune) bool {
	switch r {
	case ',', ' ', '\t', '\n', '\'', '"', '(', ')', '[', ']', ':', '+', '.':
		return true
	}
	return false
}

// ResolveLayout returns the named layout. For "auto" it asks hint and
// falls back to us when the hint is empty or not recognised.
func ResolveLayout(ctx context.Context, name string, hint HintFunc) (*Layout, error) {
	if name != LayoutAuto && name != "" {
		return Lookup(name)
	}
	if hint != nil {
		if n, ok := MatchHint(hint(ctx)); ok {
			return Lookup(n)
		}
	}
	return Lookup(LayoutUS)
}
