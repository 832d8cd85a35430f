package update

import (
	"runtime"
	"slices"
)

// CurrentPlatform is the platform this binary was built for.
var CurrentPlatform = PlatformFromGOOS(runtime.GOOS)

// PlatformFromGOOS maps a GOOS value to the manifest platform it is served by.
// Linux builds are served Ubuntu packages.
func PlatformFromGOOS(goos string) TargetPlatform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "linux":
		return PlatformUbuntu
	case "darwin":
		return PlatformDarwin
	default:
		return PlatformUnknown
	}
}

// FilterToPlatform drops releases that do not target p, keeping the order of
// the rest, and reports whether any release remains. An Unknown platform
// leaves the list untouched.
func FilterToPlatform(info *UpdateInfo, p TargetPlatform) bool {
	if p == PlatformUnknown {
		return true
	}
	info.Releases = slices.DeleteFunc(info.Releases, func(r ReleaseInfo) bool {
		return !r.HasPlatform(p)
	})
	return len(info.Releases) > 0
}

// MarkUpdates sets IsUpdateAvailable when a release is newer than ref.
// Scanning stops at the first newer release.
func MarkUpdates(info *UpdateInfo, ref Version) {
	for _, r := range info.Releases {
		if r.Version.Compare(ref) == Newer {
			info.IsUpdateAvailable = true
			return
		}
	}
}
