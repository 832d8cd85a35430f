package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// ProgressBar renders download progress. On a TTY it redraws a single bar
// line; otherwise it prints a line every 10%.
type ProgressBar struct {
	out        io.Writer
	total      int64
	current    int64
	startTime  time.Time
	lastUpdate time.Time
	isTTY      bool
	lastPct    float64 // for non-TTY threshold updates
	colors     *ColorConfig
	indent     string
	label      string
}

// NewProgressBar creates a progress bar writing to out. If total is <= 0,
// the bar shows bytes downloaded without percentage.
func NewProgressBar(out io.Writer, total int64) *ProgressBar {
	if out == nil {
		out = os.Stderr
	}
	return &ProgressBar{
		out:       out,
		total:     total,
		startTime: time.Now(),
		isTTY:     IsTerminal(out),
		lastPct:   -1,
		colors:    NewColorConfigFromGlobal(),
		indent:    "  ",
		label:     "Downloading...",
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetIndent sets the indentation prefix for the progress bar output.
func (p *ProgressBar) SetIndent(indent string) { p.indent = indent }

// SetLabel replaces the "Downloading..." label.
func (p *ProgressBar) SetLabel(label string) { p.label = label }

// Callback adapts the bar to a (downloaded, total) progress callback. The
// total is taken from the first call that reports one.
func (p *ProgressBar) Callback() func(downloaded, total int64) {
	return func(downloaded, total int64) {
		if p.total <= 0 && total > 0 {
			p.total = total
		}
		p.Update(downloaded)
	}
}

// Update updates the progress bar with the current byte count.
func (p *ProgressBar) Update(current int64) {
	p.current = current

	// max 10 redraws per second on a TTY
	now := time.Now()
	if p.isTTY && now.Sub(p.lastUpdate) < 100*time.Millisecond {
		return
	}
	p.lastUpdate = now

	if p.total <= 0 {
		if p.isTTY {
			fmt.Fprintf(p.out, "\r%s%s %s\033[K", p.indent, p.label, FormatBytes(current))
		}
		return
	}

	pct := float64(current) / float64(p.total) * 100
	if p.isTTY {
		p.renderTTY(pct)
		return
	}
	threshold := float64(int(pct/10) * 10)
	if threshold > p.lastPct {
		p.lastPct = threshold
		fmt.Fprintf(p.out, "%s%s %.0f%%\n", p.indent, p.label, threshold)
	}
}

func (p *ProgressBar) renderTTY(pct float64) {
	elapsed := time.Since(p.startTime).Seconds()
	var speed float64
	if elapsed > 0 {
		speed = float64(p.current) / elapsed
	}

	eta := "--"
	switch {
	case p.current >= p.total:
		eta = "0s"
	case speed > 0:
		eta = formatDuration(float64(p.total-p.current) / speed)
	}

	width := 80
	if f, ok := p.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	// room for "[bar] 100.0%   999.9MB/999.9MB   999.9MB/s   ETA 99m59s"
	barWidth := min(max(width-56-len(p.indent), 10), 40)
	filled := min(max(int(pct/100*float64(barWidth)), 0), barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	if pct >= 100 {
		bar = p.colors.Success(bar)
	}

	// \033[K clears the remainder of the previous, longer line
	fmt.Fprintf(p.out, "\r%s[%s] %5.1f%%   %s/%s   %s   ETA %s\033[K",
		p.indent, bar, pct,
		FormatBytes(p.current), FormatBytes(p.total),
		FormatSpeed(speed), eta,
	)
}

func formatDuration(seconds float64) string {
	if seconds < 0 {
		return "--"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm%ds", int(seconds)/60, int(seconds)%60)
	}
	return fmt.Sprintf("%dh%dm", int(seconds)/3600, (int(seconds)%3600)/60)
}

// Finish completes the progress bar and moves to the next line.
func (p *ProgressBar) Finish() {
	if p.isTTY {
		if p.total > 0 {
			p.current = p.total
			p.renderTTY(100)
		}
		fmt.Fprintln(p.out)
		return
	}
	if p.total > 0 && p.lastPct < 100 {
		fmt.Fprintf(p.out, "%s%s 100%%\n", p.indent, p.label)
	}
}
