// Package term provides ANSI color state and terminal detection.
//
// Colors are package-level variables because multiple packages (logging,
// display) need them for output formatting. [Configure] sets them once
// during startup; when colors are disabled the variables are empty strings,
// making string concatenation a no-op.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/BitEU/Hashbrown/internal/config"
)

// ANSI sequences. Log level labels use these directly.
const (
	SeqRed     = "\033[1;91m"
	SeqGreen   = "\033[1;92m"
	SeqYellow  = "\033[1;93m"
	SeqBlue    = "\033[1;94m"
	SeqCyan    = "\033[1;96m"
	SeqMagenta = "\033[1;95m"
	SeqReset   = "\033[0m"
)

// Colors for direct formatting. Empty when colors are disabled.
var (
	Yellow  = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// Configure resolves the color mode and sets the package-level ANSI
// variables. Call once during startup (from [logging.NewLogger]).
func Configure(mode config.ColorMode) {
	if resolve(mode) {
		Yellow, Cyan, Magenta, NC = SeqYellow, SeqCyan, SeqMagenta, SeqReset
	} else {
		Yellow, Cyan, Magenta, NC = "", "", "", ""
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// resolve determines whether colors should be enabled based on the configured
// mode, TTY detection, and the NO_COLOR env var (https://no-color.org).
func resolve(mode config.ColorMode) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default: // ColorAuto
		return IsTerminal(os.Stdout) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a terminal (including Cygwin
// and MSYS pseudo-terminals on Windows).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
