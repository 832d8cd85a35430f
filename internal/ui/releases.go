package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

const cardWidth = 72

// ReleaseView controls how releases are rendered.
type ReleaseView struct {
	Colors *ColorConfig
	// Reference marks releases newer than it. A zero Reference marks none.
	Reference update.Version
	// Boxed draws each release in a rounded lipgloss card.
	Boxed bool
}

// RenderUpdateInfo renders a headline followed by every release.
func (v ReleaseView) RenderUpdateInfo(info *update.UpdateInfo) string {
	c := v.colors()
	var b strings.Builder
	switch {
	case info == nil || len(info.Releases) == 0:
		b.WriteString(c.StatusIcon("info") + " No releases for this platform.\n")
		return b.String()
	case info.IsUpdateAvailable:
		b.WriteString(c.StatusIcon("update") + " " + c.Apply(c.Theme.NewRelease, "An update is available.") + "\n")
	default:
		b.WriteString(c.StatusIcon("current") + " You are running the latest version.\n")
	}
	for i := range info.Releases {
		b.WriteString("\n")
		b.WriteString(v.RenderRelease(&info.Releases[i]))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRelease renders one release, boxed or plain.
func (v ReleaseView) RenderRelease(r *update.ReleaseInfo) string {
	body := v.releaseBody(r)
	if !v.Boxed {
		return body
	}
	border := lipgloss.Color("63")
	if v.isNew(r) {
		border = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth).
		Render(body)
}

func (v ReleaseView) isNew(r *update.ReleaseInfo) bool {
	return v.Reference != (update.Version{}) && r.Version.Compare(v.Reference) == update.Newer
}

func (v ReleaseView) releaseBody(r *update.ReleaseInfo) string {
	c := v.colors()
	var b strings.Builder

	title := c.Apply(c.Theme.Version, r.Version.String())
	if v.isNew(r) {
		title = c.Apply(c.Theme.NewRelease, r.Version.String()+" (new)")
	}
	fmt.Fprintf(&b, "%s  %s", title, c.Apply(c.Theme.ReleaseType, r.Type.String()))
	if r.Date != "" {
		fmt.Fprintf(&b, "  %s", c.Description(r.Date))
	}
	b.WriteString("\n")
	if r.Title != "" {
		b.WriteString(r.Title + "\n")
	}

	b.WriteString(c.FormatKeyValue("Platforms", platformList(r.TargetPlatforms)) + "\n")
	if len(r.Tags) > 0 {
		b.WriteString(c.FormatKeyValue("Tags", strings.Join(r.Tags, ", ")) + "\n")
	}

	if len(r.DownloadLinks) > 0 {
		rows := make([][]string, 0, len(r.DownloadLinks))
		for _, d := range r.DownloadLinks {
			rows = append(rows, []string{d.DisplayName(), d.URL})
		}
		b.WriteString("\n")
		b.WriteString(Table(c, []string{"PACKAGE", "URL"}, rows, nil))
	}
	if len(r.InfoLinks) > 0 {
		b.WriteString("\n" + c.Label("More information:") + "\n")
		for _, l := range r.InfoLinks {
			desc := l.Description
			if desc == "" {
				desc = l.URL
			}
			fmt.Fprintf(&b, "  %s  %s\n", desc, c.Link(l.URL))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v ReleaseView) colors() *ColorConfig {
	if v.Colors != nil {
		return v.Colors
	}
	return NewColorConfigFromGlobal()
}

func platformList(ps []update.TargetPlatform) string {
	if len(ps) == 0 {
		return "-"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
