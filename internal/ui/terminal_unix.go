//go:build !windows

package ui

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// FlushStdinWithTimeout reads and discards stdin for the given duration,
// catching cursor position reports and OSC replies that arrive late.
// Piped stdin is never read.
func FlushStdinWithTimeout(timeout time.Duration) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}

	if err := syscall.SetNonblock(fd, true); err != nil {
		return
	}
	defer syscall.SetNonblock(fd, false)

	buf := make([]byte, 256)
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if n, _ := os.Stdin.Read(buf); n <= 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}
