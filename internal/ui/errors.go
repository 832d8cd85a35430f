package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// ErrorMessage represents a structured, actionable error to present to users.
type ErrorMessage struct {
	Problem string   // one-line problem statement
	Causes  []string // possible causes
	Actions []string // actionable steps to resolve
	Hints   []string // optional hints (e.g., commands to try)
}

// Format renders the error using the color theme. It does not include ANSI
// codes when colors are disabled (NO_COLOR or dumb terminal).
func (e ErrorMessage) Format(c *ColorConfig) string {
	var b strings.Builder
	b.WriteString(c.StatusIcon("error"))
	b.WriteString(" ")
	b.WriteString(c.Header("Error"))
	b.WriteString("\n")
	if e.Problem != "" {
		fmt.Fprintf(&b, "  %s: %s\n", c.Label("Problem"), e.Problem)
	}
	writeList(&b, c.Label("Possible causes"), "   • ", e.Causes, nil)
	writeList(&b, c.Label("Try"), "   → ", e.Actions, nil)
	writeList(&b, c.Label("Hints"), "   · ", e.Hints, c.Description)
	return b.String()
}

func writeList(b *strings.Builder, label, bullet string, items []string, style func(string) string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s:\n", label)
	for _, it := range items {
		if style != nil {
			it = style(it)
		}
		b.WriteString(bullet)
		b.WriteString(it)
		b.WriteString("\n")
	}
}

// ErrorFor turns a failed check into an ErrorMessage. The accumulated
// check messages become the causes.
func ErrorFor(err error) ErrorMessage {
	if err == nil {
		return ErrorMessage{Problem: "The update check failed"}
	}
	var ce *update.CheckError
	if !errors.As(err, &ce) {
		return ErrorMessage{Problem: err.Error()}
	}
	msg := ErrorMessage{Causes: trimAll(ce.Messages)}
	switch ce.Kind {
	case update.KindTransport:
		msg.Problem = "Could not obtain the version file"
		msg.Actions = []string{"Check the location is reachable", "Check the download helper is installed next to update-check"}
		msg.Hints = []string{"update-check check --debug", "update-check config init --downloader http"}
	case update.KindSchema:
		msg.Problem = "The version file is malformed"
		msg.Actions = []string{"Validate the file with: update-check inspect <file>"}
	case update.KindSemantic:
		msg.Problem = "The version file could not be used"
		msg.Actions = []string{"Check the schema version and release assets"}
	default:
		msg.Problem = "The update check failed"
	}
	return msg
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PrintError prints the structured error to w using the global theme.
func PrintError(w io.Writer, e ErrorMessage) {
	fmt.Fprintln(w, e.Format(NewColorConfigFromGlobal()))
}
