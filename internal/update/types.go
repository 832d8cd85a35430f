package update

import "fmt"

// TargetPlatform is the OS family a release applies to.
type TargetPlatform int

const (
	PlatformUnknown TargetPlatform = iota
	PlatformWindows
	PlatformUbuntu
	PlatformRHEL
	PlatformDarwin
)

// PackageType describes the kind of archive or installer behind a download link.
type PackageType int

const (
	PackageUnknown PackageType = iota
	PackageZip
	PackageMsi
	PackageTar
	PackageRpm
	PackageDebian
)

// ReleaseType classifies a release.
type ReleaseType int

const (
	ReleaseUnknown ReleaseType = iota
	ReleaseGeneralAvailability
	ReleaseBeta
	ReleaseAlpha
	ReleasePatch
	// Development builds are used for testing.
	ReleaseDevelopment
)

// Manifest tokens.
const (
	tokenUnknown   = "Unknown"
	tokenUndefined = "undefined"

	tokenWindows = "Windows"
	tokenUbuntu  = "Ubuntu"
	tokenRHEL    = "RHEL"
	tokenDarwin  = "Darwin"

	tokenZip    = "ZIP"
	tokenMsi    = "MSI"
	tokenTar    = "TAR"
	tokenRpm    = "RPM"
	tokenDebian = "Debian"

	tokenGA          = "GA"
	tokenBeta        = "Beta"
	tokenAlpha       = "Alpha"
	tokenPatch       = "Patch"
	tokenDevelopment = "Development"
)

func (p TargetPlatform) String() string {
	switch p {
	case PlatformUnknown:
		return tokenUnknown
	case PlatformWindows:
		return tokenWindows
	case PlatformUbuntu:
		return tokenUbuntu
	case PlatformRHEL:
		return tokenRHEL
	case PlatformDarwin:
		return tokenDarwin
	default:
		return tokenUndefined
	}
}

func (t PackageType) String() string {
	switch t {
	case PackageUnknown:
		return tokenUnknown
	case PackageZip:
		return tokenZip
	case PackageMsi:
		return tokenMsi
	case PackageTar:
		return tokenTar
	case PackageRpm:
		return tokenRpm
	case PackageDebian:
		return tokenDebian
	default:
		return tokenUndefined
	}
}

func (t ReleaseType) String() string {
	switch t {
	case ReleaseUnknown:
		return tokenUnknown
	case ReleaseGeneralAvailability:
		return tokenGA
	case ReleaseBeta:
		return tokenBeta
	case ReleaseAlpha:
		return tokenAlpha
	case ReleasePatch:
		return tokenPatch
	case ReleaseDevelopment:
		return tokenDevelopment
	default:
		return tokenUndefined
	}
}

// Enums marshal as their manifest tokens so CLI json/yaml output reads like a manifest.

func (p TargetPlatform) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *TargetPlatform) UnmarshalText(b []byte) error {
	v, ok := parsePlatform(string(b))
	if !ok {
		return fmt.Errorf("unknown platform %q", string(b))
	}
	*p = v
	return nil
}

func (t PackageType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *PackageType) UnmarshalText(b []byte) error {
	v, ok := parsePackageType(string(b))
	if !ok {
		return fmt.Errorf("unknown package type %q", string(b))
	}
	*t = v
	return nil
}

func (t ReleaseType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ReleaseType) UnmarshalText(b []byte) error {
	v, ok := parseReleaseType(string(b))
	if !ok {
		return fmt.Errorf("unknown release type %q", string(b))
	}
	*t = v
	return nil
}

// InfoPageLink points at a page that accompanies an update notice.
type InfoPageLink struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// DownloadLink is a URL for one package of a release.
type DownloadLink struct {
	URL         string      `json:"url" yaml:"url"`
	PackageType PackageType `json:"package_type" yaml:"package_type"`
	// PackageName overrides the display name; only schema 1.6 carries it.
	PackageName string `json:"package_name,omitempty" yaml:"package_name,omitempty"`
}

// DisplayName is the package name when the manifest provides one, else the package type.
func (d DownloadLink) DisplayName() string {
	if d.PackageName != "" {
		return d.PackageName
	}
	return d.PackageType.String()
}

// ReleaseInfo is one versioned, dated, platform-and-type scoped release.
type ReleaseInfo struct {
	Version         Version          `json:"version" yaml:"version"`
	Date            string           `json:"date" yaml:"date"` // YYYY-MM-DD, not validated
	Title           string           `json:"title" yaml:"title"`
	TargetPlatforms []TargetPlatform `json:"target_platforms" yaml:"target_platforms"`
	Type            ReleaseType      `json:"type" yaml:"type"`
	Tags            []string         `json:"tags" yaml:"tags"`
	DownloadLinks   []DownloadLink   `json:"download_links" yaml:"download_links"`
	InfoLinks       []InfoPageLink   `json:"info_links" yaml:"info_links"`
}

// HasPlatform reports whether the release targets p.
func (r *ReleaseInfo) HasPlatform(p TargetPlatform) bool {
	for _, tp := range r.TargetPlatforms {
		if tp == p {
			return true
		}
	}
	return false
}

// UpdateInfo is the canonical result of a check.
type UpdateInfo struct {
	IsUpdateAvailable bool          `json:"is_update_available" yaml:"is_update_available"`
	Releases          []ReleaseInfo `json:"releases" yaml:"releases"`
}

// package15 is one download entry of a schema 1.3/1.5 document.
type package15 struct {
	url             string
	packageType     PackageType
	releaseType     ReleaseType
	targetPlatforms []TargetPlatform
}

// manifest15 is the flat schema 1.5 shape that schema 1.3 documents are also read into.
type manifest15 struct {
	version     Version
	date        string
	description string
	packages    []package15
	infoLinks   []InfoPageLink
}

// CheckResult is what the CLI reports and caches for one check.
type CheckResult struct {
	CheckID         string      `json:"check_id" yaml:"check_id"`
	CurrentVersion  string      `json:"current_version" yaml:"current_version"`
	ComparedVersion string      `json:"compared_version" yaml:"compared_version"`
	Platform        string      `json:"platform" yaml:"platform"`
	Location        string      `json:"location" yaml:"location"`
	Filename        string      `json:"filename" yaml:"filename"`
	Info            *UpdateInfo `json:"update_info" yaml:"update_info"`
}
