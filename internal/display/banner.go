package display

import (
	"fmt"
	"io"

	"github.com/backmassage/linebatch/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _ _            _           _       _
| (_)_ __   ___| |__   __ _| |_ ___| |__
| | | '_ \ / _ \ '_ \ / _`+"`"+` | __/ __| '_ \
| | | | | |  __/ |_) | (_| | || (__| | | |
|_|_|_| |_|\___|_.__/ \__,_|\__\___|_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
