package display

import (
	"fmt"
	"io"

	"github.com/BitEU/Hashbrown/internal/term"
)

// PrintBanner writes the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _   _           _     _
| | | | __ _ ___| |__ | |__  _ __ _____      ___ __
| |_| |/ _`+"`"+` / __| '_ \| '_ \| '__/ _ \ \ /\ / / '_ \
|  _  | (_| \__ \ | | | |_) | | | (_) \ V  V /| | | |
|_| |_|\__,_|___/_| |_|_.__/|_|  \___/ \_/\_/ |_| |_|
`)
	if term.NC != "" {
		fmt.Fprintln(w, term.NC)
	}
}
