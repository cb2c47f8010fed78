package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/Alia5/autotyper/internal/keymap"
)

// Layouts lists the built-in keyboard layouts.
type Layouts struct {
	out io.Writer
}

func (l *Layouts) Run() error {
	out := l.out
	if out == nil {
		out = os.Stdout
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCHARS\tDESCRIPTION")
	for _, name := range keymap.Names() {
		layout, err := keymap.Lookup(name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", layout.Name(), layout.Len(), layout.Description())
	}
	_, _ = fmt.Fprintf(w, "%s\t-\tdetect from the OS, falling back to %s\n", keymap.LayoutAuto, keymap.LayoutUS)
	return w.Flush()
}
