package ui

import (
	"fmt"
	"os"
	"strings"
)

// Color codes for terminal output
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Underline = "\033[4m"

	Cyan = "\033[36m"

	BrightBlack   = "\033[90m"
	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
)

// Theme defines the color scheme for different UI elements
type Theme struct {
	// Status indicators
	Success string
	Warning string
	Error   string
	Info    string

	// Text
	Header      string
	SubHeader   string
	Label       string
	Value       string
	Description string
	Separator   string
	Link        string
	Command     string

	// Release attributes
	Version     string
	NewRelease  string
	ReleaseType string
}

// DefaultTheme returns the default color theme
func DefaultTheme() *Theme {
	return &Theme{
		Success: BrightGreen,
		Warning: BrightYellow,
		Error:   BrightRed,
		Info:    BrightCyan,

		Header:      Bold + BrightCyan,
		SubHeader:   Bold + Cyan,
		Label:       Bold, // terminal default color stays readable on any background
		Value:       "",
		Description: BrightBlack,
		Separator:   BrightBlack,
		Link:        Underline + BrightBlue,
		Command:     BrightGreen,

		Version:     Bold,
		NewRelease:  Bold + BrightGreen,
		ReleaseType: BrightMagenta,
	}
}

// ColorConfig manages color output settings
type ColorConfig struct {
	Enabled      bool
	EmojiEnabled bool
	Theme        *Theme
}

// NewColorConfig creates a color configuration from the environment.
// Colors are off when NO_COLOR is set or TERM is empty or dumb.
func NewColorConfig() *ColorConfig {
	noColor := os.Getenv("NO_COLOR") != ""
	term := os.Getenv("TERM")

	return &ColorConfig{
		Enabled:      !noColor && term != "dumb" && term != "",
		EmojiEnabled: true,
		Theme:        DefaultTheme(),
	}
}

// Apply applies a color to text if colors are enabled
func (c *ColorConfig) Apply(color, text string) string {
	if !c.Enabled || color == "" {
		return text
	}
	return color + text + Reset
}

func (c *ColorConfig) Success(text string) string     { return c.Apply(c.Theme.Success, text) }
func (c *ColorConfig) Warning(text string) string     { return c.Apply(c.Theme.Warning, text) }
func (c *ColorConfig) Error(text string) string       { return c.Apply(c.Theme.Error, text) }
func (c *ColorConfig) Info(text string) string        { return c.Apply(c.Theme.Info, text) }
func (c *ColorConfig) Header(text string) string      { return c.Apply(c.Theme.Header, text) }
func (c *ColorConfig) SubHeader(text string) string   { return c.Apply(c.Theme.SubHeader, text) }
func (c *ColorConfig) Label(text string) string       { return c.Apply(c.Theme.Label, text) }
func (c *ColorConfig) Value(text string) string       { return c.Apply(c.Theme.Value, text) }
func (c *ColorConfig) Description(text string) string { return c.Apply(c.Theme.Description, text) }
func (c *ColorConfig) Link(text string) string        { return c.Apply(c.Theme.Link, text) }
func (c *ColorConfig) Command(text string) string     { return c.Apply(c.Theme.Command, text) }

// FormatKeyValue formats a key-value pair with proper colors
func (c *ColorConfig) FormatKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", c.Label(key), c.Value(value))
}

// FormatCommandAligned formats a command and its description with the
// description starting at column width.
func (c *ColorConfig) FormatCommandAligned(cmd, desc string, width int) string {
	pad := max(width-len(cmd), 1)
	return "  " + c.Command(cmd) + strings.Repeat(" ", pad) + c.Description(desc)
}

// Separator returns a colored separator line
func (c *ColorConfig) Separator(width int) string {
	return c.Apply(c.Theme.Separator, strings.Repeat("─", width))
}

// StatusIcon returns a colored status icon (respects emoji settings)
func (c *ColorConfig) StatusIcon(status string) string {
	type icon struct{ emoji, plain string }
	var (
		ic    icon
		color string
	)
	switch strings.ToLower(status) {
	case "success", "current":
		ic, color = icon{"✓", "[OK]"}, c.Theme.Success
	case "update", "warning":
		ic, color = icon{"↑", "[NEW]"}, c.Theme.Warning
	case "error", "failed":
		ic, color = icon{"✗", "[ERR]"}, c.Theme.Error
	case "info":
		ic, color = icon{"ℹ", "[INFO]"}, c.Theme.Info
	default:
		ic, color = icon{"○", "[ ]"}, c.Theme.Description
	}
	if c.EmojiEnabled {
		return c.Apply(color, ic.emoji)
	}
	return c.Apply(color, ic.plain)
}
