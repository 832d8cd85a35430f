package main

import "github.com/GPUOpen-Tools/update-check-api/internal/ui"

func main() {
	// Must run before lipgloss or bubbletea touch the terminal.
	ui.InitTerminal()

	Execute()
}
