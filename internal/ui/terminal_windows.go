//go:build windows

package ui

import "time"

// FlushStdinWithTimeout is a no-op on Windows consoles.
func FlushStdinWithTimeout(time.Duration) {}
