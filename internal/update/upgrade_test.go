package update

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUpgrade15_SameKeyMerges(t *testing.T) {
	m := &manifest15{
		version:     Version{1, 2, 0, 0},
		date:        "2020-02-02",
		description: "Tool 1.2",
		infoLinks:   []InfoPageLink{{URL: "https://example.com", Description: "Home"}},
		packages: []package15{
			{url: "first.zip", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: []TargetPlatform{PlatformWindows, PlatformUbuntu}},
			{url: "second.tgz", packageType: PackageTar, releaseType: ReleaseGeneralAvailability, targetPlatforms: []TargetPlatform{PlatformWindows, PlatformUbuntu}},
		},
	}

	info := upgrade15(m)
	if len(info.Releases) != 1 {
		t.Fatalf("got %d releases, want 1", len(info.Releases))
	}
	want := []DownloadLink{
		{URL: "first.zip", PackageType: PackageZip},
		{URL: "second.tgz", PackageType: PackageTar},
	}
	if diff := cmp.Diff(want, info.Releases[0].DownloadLinks); diff != "" {
		t.Errorf("download links mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Windows", "Ubuntu", "GA"}, info.Releases[0].Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if info.IsUpdateAvailable {
		t.Error("upgrade must not flag an update")
	}
}

func TestUpgrade15_Grouping(t *testing.T) {
	win := []TargetPlatform{PlatformWindows}
	tests := []struct {
		name      string
		packages  []package15
		wantCount int
		wantLinks [][]string
	}{
		{
			name: "different platform sets",
			packages: []package15{
				{url: "a", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: win},
				{url: "b", packageType: PackageTar, releaseType: ReleaseGeneralAvailability, targetPlatforms: []TargetPlatform{PlatformUbuntu}},
			},
			wantCount: 2,
			wantLinks: [][]string{{"a"}, {"b"}},
		},
		{
			name: "platform order matters",
			packages: []package15{
				{url: "a", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: []TargetPlatform{PlatformWindows, PlatformUbuntu}},
				{url: "b", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: []TargetPlatform{PlatformUbuntu, PlatformWindows}},
			},
			wantCount: 2,
			wantLinks: [][]string{{"a"}, {"b"}},
		},
		{
			name: "different release types",
			packages: []package15{
				{url: "a", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: win},
				{url: "b", packageType: PackageZip, releaseType: ReleaseBeta, targetPlatforms: win},
			},
			wantCount: 2,
			wantLinks: [][]string{{"a"}, {"b"}},
		},
		{
			name: "first occurrence order",
			packages: []package15{
				{url: "a", packageType: PackageZip, releaseType: ReleaseBeta, targetPlatforms: win},
				{url: "b", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: win},
				{url: "c", packageType: PackageMsi, releaseType: ReleaseBeta, targetPlatforms: win},
			},
			wantCount: 2,
			wantLinks: [][]string{{"a", "c"}, {"b"}},
		},
		{
			name:      "no packages",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := upgrade15(&manifest15{packages: tt.packages})
			if len(info.Releases) != tt.wantCount {
				t.Fatalf("got %d releases, want %d", len(info.Releases), tt.wantCount)
			}
			for i, want := range tt.wantLinks {
				var got []string
				for _, l := range info.Releases[i].DownloadLinks {
					got = append(got, l.URL)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("release %d links mismatch (-want +got):\n%s", i, diff)
				}
			}
		})
	}
}

func TestUpgrade15_ReleasesDoNotShareSlices(t *testing.T) {
	platforms := []TargetPlatform{PlatformWindows}
	m := &manifest15{
		infoLinks: []InfoPageLink{{URL: "u", Description: "d"}},
		packages: []package15{
			{url: "a", packageType: PackageZip, releaseType: ReleaseGeneralAvailability, targetPlatforms: platforms},
			{url: "b", packageType: PackageZip, releaseType: ReleaseBeta, targetPlatforms: platforms},
		},
	}
	info := upgrade15(m)
	info.Releases[0].TargetPlatforms[0] = PlatformDarwin
	info.Releases[0].InfoLinks[0].URL = "changed"

	if info.Releases[1].TargetPlatforms[0] != PlatformWindows {
		t.Error("releases share a platform slice")
	}
	if info.Releases[1].InfoLinks[0].URL != "u" {
		t.Error("releases share an info link slice")
	}
}
