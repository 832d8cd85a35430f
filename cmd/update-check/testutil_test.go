package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

const testManifest = `{
    "SchemaVersion": "1.6",
    "Releases": [
        {
            "ReleaseVersion": {"Major": 2, "Minor": 1, "Patch": 0, "Build": 0},
            "ReleaseDate": "2024-05-01",
            "ReleaseTitle": "Tool 2.1",
            "ReleaseType": "GA",
            "ReleasePlatforms": ["Windows"],
            "ReleaseTags": ["stable"],
            "InfoPageLinks": [{"URL": "https://example.com/notes/2.1", "Description": "Release notes"}],
            "DownloadLinks": [{"URL": "https://example.com/tool-2.1.zip", "PackageType": "ZIP"}]
        },
        {
            "ReleaseVersion": {"Major": 2, "Minor": 0, "Patch": 0, "Build": 0},
            "ReleaseDate": "2024-01-01",
            "ReleaseTitle": "Tool 2.0 for Linux",
            "ReleaseType": "GA",
            "ReleasePlatforms": ["Ubuntu"],
            "ReleaseTags": [],
            "InfoPageLinks": [{"URL": "https://example.com/notes/2.0", "Description": "Release notes"}],
            "DownloadLinks": [{"URL": "https://example.com/tool-2.0.tgz", "PackageType": "TAR"}]
        }
    ]
}`

// fakeSource serves a fixed manifest and counts calls.
type fakeSource struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeSource) Resolve(ctx context.Context, location, filename string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func noEnv(string) (string, bool) { return "", false }

func plainColors() *ui.ColorConfig {
	return &ui.ColorConfig{Theme: ui.DefaultTheme()}
}

// testDeps wires a checker for Windows over src with output captured.
func testDeps(t *testing.T, src *fakeSource, format string) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errs bytes.Buffer
	p := ui.NewPrinter(format)
	p.Out = &out
	p.Colors = plainColors()
	return &Deps{
		Cfg: config.Config{
			HomeDir:    t.TempDir(),
			Filename:   "versions.json",
			Downloader: config.DownloaderHTTP,
			CacheTTL:   time.Minute,
			Timeout:    time.Minute,
		},
		Checker: update.NewChecker(
			update.WithSource(src),
			update.WithPlatform(update.PlatformWindows),
			update.WithLookupEnv(noEnv),
		),
		Printer: p,
		Output:  &out,
		Errors:  &errs,
	}, &out, &errs
}
