package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

type fakeSource struct {
	data []byte
	err  error

	location, filename string
}

func (s *fakeSource) Resolve(ctx context.Context, location, filename string) ([]byte, error) {
	s.location, s.filename = location, filename
	return s.data, s.err
}

// versionsManifest lists one release per version, all for Windows and Ubuntu.
func versionsManifest(versions ...string) []byte {
	doc := `{"SchemaVersion": "1.6", "Releases": [`
	for i, v := range versions {
		if i > 0 {
			doc += ","
		}
		ver, _ := ParseVersion(v)
		doc += `{"ReleaseVersion": {"Major": ` + itoa(ver.Major) + `, "Minor": ` + itoa(ver.Minor) +
			`, "Patch": ` + itoa(ver.Patch) + `, "Build": ` + itoa(ver.Build) + `},
			"ReleaseDate": "2024-01-01", "ReleaseTitle": "` + v + `", "ReleaseType": "GA",
			"ReleasePlatforms": ["Windows", "Ubuntu"], "ReleaseTags": [],
			"InfoPageLinks": [{"URL": "u", "Description": "d"}],
			"DownloadLinks": [{"URL": "u", "PackageType": "ZIP"}]}`
	}
	return []byte(doc + `]}`)
}

func itoa(n uint32) string { return strconv.FormatUint(uint64(n), 10) }

func noEnv(string) (string, bool) { return "", false }

func TestChecker_UpdateDecision(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		current  Version
		env      map[string]string
		want     bool
	}{
		{
			name:     "newer release available",
			versions: []string{"0.9.0.0", "1.0.0.0", "1.1.0.0"},
			current:  Version{1, 0, 0, 0},
			want:     true,
		},
		{
			name:     "up to date",
			versions: []string{"0.9.0.0", "1.0.0.0"},
			current:  Version{1, 0, 0, 0},
			want:     false,
		},
		{
			name:     "override hides update",
			versions: []string{"2.0.0.0"},
			current:  Version{1, 0, 0, 0},
			env:      map[string]string{AssumeVersionEnv: "3.2.1.0"},
			want:     false,
		},
		{
			name:     "override reveals update",
			versions: []string{"2.0.0.0"},
			current:  Version{5, 0, 0, 0},
			env:      map[string]string{AssumeVersionEnv: "1.9.0.0"},
			want:     true,
		},
		{
			name:     "unparsable override compares against 1.0.0.0",
			versions: []string{"1.0.0.1"},
			current:  Version{9, 0, 0, 0},
			env:      map[string]string{AssumeVersionEnv: "latest"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{data: versionsManifest(tt.versions...)}
			c := NewChecker(WithSource(src), WithPlatform(PlatformWindows), WithLookupEnv(envWith(tt.env)))

			info, err := c.CheckForUpdates(context.Background(), tt.current, "https://example.com", "versions.json")
			if err != nil {
				t.Fatalf("CheckForUpdates() error = %v", err)
			}
			if info.IsUpdateAvailable != tt.want {
				t.Errorf("IsUpdateAvailable = %v, want %v", info.IsUpdateAvailable, tt.want)
			}
			if src.location != "https://example.com" || src.filename != "versions.json" {
				t.Errorf("source got (%q, %q)", src.location, src.filename)
			}
		})
	}
}

func TestChecker_NoCompatibleRelease(t *testing.T) {
	src := &fakeSource{data: versionsManifest("9.0.0.0")}
	c := NewChecker(WithSource(src), WithPlatform(PlatformDarwin), WithLookupEnv(noEnv))

	info, err := c.CheckForUpdates(context.Background(), Version{1, 0, 0, 0}, "loc", "versions.json")
	if err != nil {
		t.Fatalf("CheckForUpdates() error = %v", err)
	}
	if info.IsUpdateAvailable {
		t.Error("IsUpdateAvailable = true with no compatible release")
	}
	if len(info.Releases) != 0 {
		t.Errorf("got %d releases, want 0", len(info.Releases))
	}
}

func TestChecker_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		want []string
	}{
		{
			name: "missing schema version",
			src:  &fakeSource{data: []byte(`{"Releases": []}`)},
			want: []string{MissingEntry(tagSchemaVersion)},
		},
		{
			name: "unsupported schema version",
			src:  &fakeSource{data: []byte(`{"SchemaVersion": "1.7"}`)},
			want: []string{MsgUnsupportedSchemaVersion},
		},
		{
			name: "transport failure",
			src:  &fakeSource{err: transportError(MsgFailedToLoadVersionFile)},
			want: []string{MsgFailedToLoadVersionFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(WithSource(tt.src), WithLookupEnv(noEnv))
			info, err := c.CheckForUpdates(context.Background(), Version{1, 0, 0, 0}, "loc", "versions.json")
			if info != nil {
				t.Errorf("CheckForUpdates() info = %+v, want nil", info)
			}
			checkMessages(t, err, tt.want...)
		})
	}
}

func transportError(msg string) error {
	c := &collector{}
	c.add(KindTransport, msg)
	return c.err()
}

func TestChecker_Check(t *testing.T) {
	src := &fakeSource{data: versionsManifest("1.0.0.0", "2.0.0.0")}
	c := NewChecker(WithSource(src), WithPlatform(PlatformUbuntu), WithLookupEnv(noEnv))

	res, err := c.Check(context.Background(), Version{1, 5, 0, 0}, "https://example.com", "versions.json")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.CheckID == "" {
		t.Error("CheckID is empty")
	}
	if res.CurrentVersion != "1.5.0.0" || res.ComparedVersion != "1.5.0.0" {
		t.Errorf("versions = %s/%s, want 1.5.0.0/1.5.0.0", res.CurrentVersion, res.ComparedVersion)
	}
	if res.Platform != "Ubuntu" {
		t.Errorf("Platform = %q, want Ubuntu", res.Platform)
	}
	if res.Info == nil || !res.Info.IsUpdateAvailable {
		t.Error("expected an available update")
	}
}

func TestChecker_ReferenceVersion(t *testing.T) {
	override := func(key string) (string, bool) {
		if key == AssumeVersionEnv {
			return "1.0.0.0", true
		}
		return "", false
	}
	src := &fakeSource{data: versionsManifest("2.0.0.0")}
	c := NewChecker(WithSource(src), WithPlatform(PlatformWindows), WithLookupEnv(override))

	current := Version{2, 1, 0, 0}
	if got := c.ReferenceVersion(current); got != (Version{1, 0, 0, 0}) {
		t.Errorf("ReferenceVersion() = %s, want 1.0.0.0", got)
	}
	res, err := c.Check(context.Background(), current, "loc", "versions.json")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if res.CurrentVersion != "2.1.0.0" || res.ComparedVersion != "1.0.0.0" {
		t.Errorf("versions = %s/%s, want 2.1.0.0/1.0.0.0", res.CurrentVersion, res.ComparedVersion)
	}
	if !res.Info.IsUpdateAvailable {
		t.Error("the assumed version must be compared, not the current one")
	}
}

func TestChecker_ResultIDs(t *testing.T) {
	c := NewChecker(WithSource(&fakeSource{}), WithLookupEnv(noEnv))
	a := c.Result(Version{1, 0, 0, 0}, "loc", "versions.json", &UpdateInfo{})
	b := c.Result(Version{1, 0, 0, 0}, "loc", "versions.json", &UpdateInfo{})
	if a.CheckID == "" || a.CheckID == b.CheckID {
		t.Errorf("CheckIDs = %q, %q, want distinct non-empty ids", a.CheckID, b.CheckID)
	}
}

func TestChecker_Cancelled(t *testing.T) {
	src := &fakeSource{err: context.Canceled}
	c := NewChecker(WithSource(src))
	if _, err := c.CheckForUpdates(context.Background(), Version{}, "loc", "versions.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("CheckForUpdates() error = %v, want context.Canceled", err)
	}
}

func TestCheckForUpdates_LocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "versions.json"), []byte(manifest16), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(AssumeVersionEnv, "2.0.0.0")

	info, err := NewChecker(WithPlatform(PlatformWindows)).CheckForUpdates(context.Background(), Version{}, dir, "versions.json")
	if err != nil {
		t.Fatalf("CheckForUpdates() error = %v", err)
	}
	if !info.IsUpdateAvailable {
		t.Error("2.1.0.150 should be newer than the assumed 2.0.0.0")
	}
	if len(info.Releases) != 1 || info.Releases[0].Title != "Tool 2.1" {
		t.Errorf("releases after filtering = %+v, want only Tool 2.1", info.Releases)
	}

	if _, err := CheckForUpdates(context.Background(), Version{}, dir, "versions.txt"); err == nil {
		t.Error("CheckForUpdates() with a non-JSON file name should fail")
	}
}
