package keymap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Dump writes one line per mapped character, sorted by codepoint:
//
//	U+0041 'A' -> KEY_A+shift
//
// Runes in the layout's escape-preferred set are listed after the table;
// dump Resolver.Effective to see the set a run actually uses.
func Dump(w io.Writer, l *Layout) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# layout %s: %s (%d characters)\n", l.Name(), l.Description(), l.Len())
	for _, r := range l.Chars() {
		s, _ := l.Lookup(r)
		fmt.Fprintf(bw, "U+%04X %s -> %s\n", r, strconv.QuoteRune(r), s)
	}
	if pe := l.PreferEscape(); len(pe) > 0 {
		fmt.Fprintf(bw, "# typed via unicode escape: %s\n", strconv.Quote(string(pe)))
	}
	return bw.Flush()
}
