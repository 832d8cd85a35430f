package ui

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

var terminalInitialized bool

// InitTerminal must run before lipgloss or bubbletea touch the terminal.
// termenv (used by lipgloss) otherwise queries the background color via
// OSC 11 and the reply can land in stdout. Setting COLORFGBG answers the
// query up front.
func InitTerminal() {
	if terminalInitialized {
		return
	}
	terminalInitialized = true

	if os.Getenv("COLORFGBG") == "" {
		os.Setenv("COLORFGBG", "0;15")
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		// Disable focus reporting (CSI ? 1004 l)
		fmt.Fprint(os.Stdout, "\033[?1004l")
		time.Sleep(20 * time.Millisecond)
		FlushStdinWithTimeout(150 * time.Millisecond)
	}
}

// ResetTerminalAfterTUI cleans up terminal state after a bubbletea program
// exits so late terminal responses do not show up in the following output.
func ResetTerminalAfterTUI() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}

	fmt.Fprint(os.Stdout, "\033[?1004l") // focus reporting off
	fmt.Fprint(os.Stdout, "\033[?1003l") // mouse tracking off
	fmt.Fprint(os.Stdout, "\033[?1000l")
	fmt.Fprint(os.Stdout, "\033[?1006l")
	fmt.Fprint(os.Stdout, "\033[?25h") // show cursor
	fmt.Fprint(os.Stdout, "\r")

	time.Sleep(30 * time.Millisecond)
	FlushStdinWithTimeout(150 * time.Millisecond)
}
