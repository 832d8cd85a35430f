package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
	"github.com/GPUOpen-Tools/update-check-api/internal/worker"
)

func plainColors() *ColorConfig {
	return &ColorConfig{Enabled: false, EmojiEnabled: false, Theme: DefaultTheme()}
}

func sampleInfo() *update.UpdateInfo {
	return &update.UpdateInfo{
		IsUpdateAvailable: true,
		Releases: []update.ReleaseInfo{
			{
				Version:         update.Version{Major: 2, Minor: 1},
				Date:            "2024-05-01",
				Title:           "Spring release",
				TargetPlatforms: []update.TargetPlatform{update.PlatformWindows, update.PlatformUbuntu},
				Type:            update.ReleaseGeneralAvailability,
				Tags:            []string{"Windows", "Ubuntu", "GA"},
				DownloadLinks: []update.DownloadLink{
					{URL: "https://example.com/tool.zip", PackageType: update.PackageZip},
					{URL: "https://example.com/tool.msi", PackageType: update.PackageMsi, PackageName: "Installer"},
				},
				InfoLinks: []update.InfoPageLink{{URL: "https://example.com/notes", Description: "Release notes"}},
			},
		},
	}
}

func TestPrinter_Formats(t *testing.T) {
	v := map[string]string{"version": "2.1.0.0"}
	tests := []struct {
		format string
		want   string
	}{
		{FormatJSON, `"version": "2.1.0.0"`},
		{FormatYAML, "version: 2.1.0.0"},
		{FormatText, `"version": "2.1.0.0"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			p := NewPrinter(tt.format)
			p.Out = &buf
			if err := p.Data(v); err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
	if !ValidFormat("yaml") || ValidFormat("xml") {
		t.Error("ValidFormat() mismatch")
	}
}

func TestPrinter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(FormatText)
	p.Out, p.Colors, p.quiet = &buf, plainColors(), true

	p.Info("checking")
	p.Success("done")
	if buf.Len() != 0 {
		t.Errorf("quiet printer wrote %q", buf.String())
	}
	p.Error("failed")
	if got := buf.String(); got != "[ERR] failed\n" {
		t.Errorf("Error() wrote %q", got)
	}
}

func TestErrorFor(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantProblem string
		wantCauses  int
	}{
		{
			name:        "transport",
			err:         &update.CheckError{Kind: update.KindTransport, Messages: []string{update.MsgFailedToLoadVersionFile}},
			wantProblem: "Could not obtain the version file",
			wantCauses:  1,
		},
		{
			name: "schema",
			err: &update.CheckError{Kind: update.KindSchema, Messages: []string{
				update.MissingEntry("ReleaseDate"), update.EmptyList("DownloadLinks"),
			}},
			wantProblem: "The version file is malformed",
			wantCauses:  2,
		},
		{name: "foreign", err: errors.New("boom"), wantProblem: "boom"},
		{name: "nil", err: nil, wantProblem: "The update check failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ErrorFor(tt.err)
			if msg.Problem != tt.wantProblem {
				t.Errorf("Problem = %q, want %q", msg.Problem, tt.wantProblem)
			}
			if len(msg.Causes) != tt.wantCauses {
				t.Errorf("Causes = %q", msg.Causes)
			}
			out := msg.Format(plainColors())
			if strings.Contains(out, "\033[") {
				t.Errorf("Format() emitted ANSI codes with colors disabled: %q", out)
			}
		})
	}
}

func TestTable(t *testing.T) {
	out := Table(plainColors(), []string{"PACKAGE", "URL"}, [][]string{{"ZIP", "https://example.com/a.zip"}}, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Table() = %q, want header, separator and one row", out)
	}
	if !strings.HasPrefix(lines[2], "ZIP     https://example.com/a.zip") {
		t.Errorf("row = %q", lines[2])
	}
	if got := truncate(strings.Repeat("x", 100), 80); len([]rune(got)) != 80 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncate() = %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1536, "1.5KB"},
		{5 * 1024 * 1024, "5.0MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatSpeed(2048); got != "2.0KB/s" {
		t.Errorf("FormatSpeed() = %q", got)
	}
}

func TestProgressBar_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 0)
	cb := bar.Callback()
	cb(0, 100)
	cb(55, 100)
	cb(100, 100)
	bar.Finish()

	want := "  Downloading... 0%\n  Downloading... 50%\n  Downloading... 100%\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestReleaseView_Render(t *testing.T) {
	info := sampleInfo()
	v := ReleaseView{Colors: plainColors(), Reference: update.Version{Major: 2}}
	out := v.RenderUpdateInfo(info)

	for _, want := range []string{
		"An update is available.",
		"2.1.0.0 (new)",
		"GA",
		"Windows, Ubuntu",
		"Installer",
		"ZIP",
		"Release notes  https://example.com/notes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	boxed := ReleaseView{Colors: plainColors(), Boxed: true}.RenderRelease(&info.Releases[0])
	if !strings.Contains(boxed, "╭") {
		t.Errorf("boxed release has no rounded border:\n%s", boxed)
	}
	if strings.Contains(boxed, "(new)") {
		t.Error("a zero reference must not mark releases as new")
	}

	empty := v.RenderUpdateInfo(&update.UpdateInfo{})
	if !strings.Contains(empty, "No releases") {
		t.Errorf("empty info = %q", empty)
	}
}

type stubChecker struct {
	info *update.UpdateInfo
	err  error
}

func (s *stubChecker) CheckForUpdates(ctx context.Context, current update.Version, location, filename string) (*update.UpdateInfo, error) {
	return s.info, s.err
}

// drive runs cmd and feeds its message back into the model until a quit
// or no further command.
func drive(t *testing.T, m *CheckModel, cmd tea.Cmd) bool {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
		_, cmd = m.Update(msg)
	}
	return false
}

func TestCheckModel_Success(t *testing.T) {
	info := sampleInfo()
	w := worker.New(&stubChecker{info: info}, update.Version{Major: 1}, "https://example.com", "versions.json")
	m := NewCheckModel(context.Background(), w, "https://example.com")
	m.colors = plainColors()

	if !strings.Contains(m.View(), "Checking https://example.com") {
		t.Errorf("View() = %q", m.View())
	}
	if !drive(t, m, m.startCmd()) {
		t.Fatal("model did not quit after a successful check")
	}
	ev, err := m.Outcome()
	if err != nil || ev.Kind != worker.Completed || ev.Results.Info != info {
		t.Errorf("Outcome() = %+v, %v", ev, err)
	}
}

func TestCheckModel_FailureThenQuit(t *testing.T) {
	failure := &update.CheckError{Kind: update.KindTransport, Messages: []string{update.MsgFailedToLoadVersionFile}}
	w := worker.New(&stubChecker{err: failure}, update.Version{}, "loc", "versions.json")
	m := NewCheckModel(context.Background(), w, "loc")
	m.colors = plainColors()

	if drive(t, m, m.startCmd()) {
		t.Fatal("model quit on a failed check; it should offer a retry")
	}
	if m.state != stateFailed || !m.keys.Retry.Enabled() {
		t.Fatalf("state = %v, retry enabled = %v", m.state, m.keys.Retry.Enabled())
	}
	if !strings.Contains(m.View(), "Failed to load version file.") {
		t.Errorf("View() = %q", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
	ev, _ := m.Outcome()
	if ev.Results.Successful || ev.Results.ErrorMessage != update.MsgFailedToLoadVersionFile {
		t.Errorf("Outcome() = %+v", ev)
	}
}

func TestCheckModel_Retry(t *testing.T) {
	sc := &stubChecker{err: errors.New("offline")}
	w := worker.New(sc, update.Version{}, "loc", "versions.json")
	m := NewCheckModel(context.Background(), w, "loc")

	drive(t, m, m.startCmd())
	sc.err, sc.info = nil, &update.UpdateInfo{}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.state != stateChecking {
		t.Fatalf("state after retry = %v", m.state)
	}
	// cmd is a batch of the spinner tick and the restart
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("retry cmd produced %T", cmd())
	}
	quit := false
	for _, c := range batch {
		if c == nil {
			continue
		}
		msg := c()
		if _, isTick := msg.(spinner.TickMsg); isTick {
			continue
		}
		_, next := m.Update(msg)
		quit = drive(t, m, next) || quit
	}
	if !quit {
		t.Fatal("model did not quit after a successful retry")
	}
	if ev, _ := m.Outcome(); !ev.Results.Successful {
		t.Errorf("Outcome() = %+v", ev)
	}
}
