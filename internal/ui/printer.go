package ui

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Printer centralizes output formatting for commands.
// - Respects --output (text|json|yaml)
// - Uses ColorConfig for styling when printing text
// - Quiet suppresses Info and Success lines, never errors or data
type Printer struct {
	format string
	quiet  bool
	Out    io.Writer
	Colors *ColorConfig
}

func NewPrinter(format string) Printer {
	if format == "" {
		format = FormatText
	}
	return Printer{format: format, Out: os.Stdout, Colors: NewColorConfig()}
}

// Format returns the selected output format.
func (p Printer) Format() string { return p.format }

// Structured reports whether output is machine-readable.
func (p Printer) Structured() bool { return p.format == FormatJSON || p.format == FormatYAML }

// ValidFormat reports whether f is a supported --output value.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Textf prints formatted text (always text path).
func (p Printer) Textf(format string, a ...any) { fmt.Fprintf(p.Out, format, a...) }

// JSON pretty-prints a JSON value.
func (p Printer) JSON(v any) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML prints v as a YAML document.
func (p Printer) YAML(v any) error {
	enc := yaml.NewEncoder(p.Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Data prints v in the selected structured format. Text output falls
// back to JSON; callers render text themselves.
func (p Printer) Data(v any) error {
	if p.format == FormatYAML {
		return p.YAML(v)
	}
	return p.JSON(v)
}

// Success prints a success line with themed prefix.
func (p Printer) Success(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.Out, p.Colors.StatusIcon("success"), msg)
}

// Info prints an informational line.
func (p Printer) Info(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.Out, p.Colors.StatusIcon("info"), msg)
}

// Warn prints a warning line.
func (p Printer) Warn(msg string) {
	c := p.Colors
	if c.EmojiEnabled {
		fmt.Fprintln(p.Out, c.Warning("!"), msg)
	} else {
		fmt.Fprintln(p.Out, c.Warning("[WARN]"), msg)
	}
}

// Error prints an error line.
func (p Printer) Error(msg string) {
	fmt.Fprintln(p.Out, p.Colors.StatusIcon("error"), msg)
}

// Header prints a section header.
func (p Printer) Header(title string) {
	fmt.Fprintln(p.Out, p.Colors.Header(" "+title+" "))
}

// Separator prints a themed separator line of n characters.
func (p Printer) Separator(n int) { fmt.Fprintln(p.Out, p.Colors.Separator(n)) }

// Section prints a section header with separator
func (p Printer) Section(title string) {
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, p.Colors.SubHeader(title))
	fmt.Fprintln(p.Out, p.Colors.Separator(40))
}

// KeyValueLine prints a key-value pair with proper formatting
func (p Printer) KeyValueLine(key, value, colorType string) {
	var coloredValue string
	switch colorType {
	case "blue":
		coloredValue = p.Colors.Apply(p.Colors.Theme.Info, value)
	case "yellow":
		coloredValue = p.Colors.Apply(p.Colors.Theme.Warning, value)
	case "green":
		coloredValue = p.Colors.Apply(p.Colors.Theme.Success, value)
	case "dim":
		coloredValue = p.Colors.Apply(p.Colors.Theme.Description, value)
	default:
		coloredValue = p.Colors.Value(value)
	}
	fmt.Fprintf(p.Out, "%s %s\n", p.Colors.Label(key+":"), coloredValue)
}
