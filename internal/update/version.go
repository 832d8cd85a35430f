package update

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// API version of this library, reported by the CLI.
const (
	apiMajor = 2
	apiMinor = 0
	apiPatch = 0
	apiBuild = 0
)

// Comparison is the result of comparing two versions.
type Comparison int

const (
	Older Comparison = -1
	Equal Comparison = 0
	Newer Comparison = 1
)

func (c Comparison) String() string {
	switch c {
	case Newer:
		return "newer"
	case Older:
		return "older"
	default:
		return "equal"
	}
}

// Version is a Major.Minor.Patch.Build product version.
type Version struct {
	Major uint32 `json:"major" yaml:"major"`
	Minor uint32 `json:"minor" yaml:"minor"`
	Patch uint32 `json:"patch" yaml:"patch"`
	Build uint32 `json:"build" yaml:"build"`
}

// APIVersion returns the version of the update check API.
func APIVersion() Version {
	return Version{Major: apiMajor, Minor: apiMinor, Patch: apiPatch, Build: apiBuild}
}

// String renders the version as "major.minor.patch.build".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Compare reports whether v is Newer, Older or Equal to other.
// Major dominates minor, which dominates patch, which dominates build.
func (v Version) Compare(other Version) Comparison {
	if c := compareUint(v.Major, other.Major); c != Equal {
		return c
	}
	if c := compareUint(v.Minor, other.Minor); c != Equal {
		return c
	}
	if c := compareUint(v.Patch, other.Patch); c != Equal {
		return c
	}
	return compareUint(v.Build, other.Build)
}

func compareUint(a, b uint32) Comparison {
	switch {
	case a > b:
		return Newer
	case a < b:
		return Older
	default:
		return Equal
	}
}

// ParseVersion parses a strict "major.minor.patch.build" string.
// All four components are required; trailing input after the build number is ignored.
func ParseVersion(s string) (Version, error) {
	var v Version
	n, err := fmt.Sscanf(s, "%d.%d.%d.%d", &v.Major, &v.Minor, &v.Patch, &v.Build)
	if n != 4 {
		if err == nil {
			err = fmt.Errorf("expected 4 components, got %d", n)
		}
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

// parseVersionString13 scans the legacy VersionString field. Between one and
// four components may be present; missing trailing components are zero.
func parseVersionString13(s string) (Version, bool) {
	if s == "" {
		return Version{}, false
	}
	var v Version
	n, _ := fmt.Sscanf(s, "%d.%d.%d.%d", &v.Major, &v.Minor, &v.Patch, &v.Build)
	if n <= 0 || n > 4 {
		return Version{}, false
	}
	return v, true
}

// ParseProductVersion accepts the looser forms a caller may pass on the
// command line ("2", "v2.1", "2.1.0", "2.1.0.42") and expands them to four
// components. Pre-release and metadata suffixes are rejected.
func ParseProductVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("empty version")
	}
	gv, err := goversion.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if gv.Prerelease() != "" || gv.Metadata() != "" {
		return Version{}, fmt.Errorf("invalid version %q: pre-release and build metadata are not supported", s)
	}

	// go-version pads to at least three segments; count what the caller wrote.
	written := len(strings.Split(strings.TrimPrefix(s, "v"), "."))
	if written > 4 {
		return Version{}, fmt.Errorf("invalid version %q: at most 4 components are supported", s)
	}

	segs := gv.Segments64()
	parts := make([]uint32, 4)
	for i := 0; i < len(segs) && i < 4; i++ {
		if segs[i] < 0 || segs[i] > int64(^uint32(0)) {
			return Version{}, fmt.Errorf("invalid version %q: component %d out of range", s, i+1)
		}
		parts[i] = uint32(segs[i])
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2], Build: parts[3]}, nil
}
