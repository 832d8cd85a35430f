package update

import (
	log "github.com/sirupsen/logrus"
)

// Supported manifest schema versions.
const (
	SchemaVersion13      = "1.3"
	SchemaVersion15      = "1.5"
	SchemaVersion16      = "1.6"
	CurrentSchemaVersion = SchemaVersion16
)

// Manifest tags.
const (
	tagSchemaVersion = "SchemaVersion"

	// 1.6
	tagReleases         = "Releases"
	tagReleasePlatforms = "ReleasePlatforms"
	tagReleaseTags      = "ReleaseTags"
	tagReleaseTitle     = "ReleaseTitle"
	tagReleaseType      = "ReleaseType"
	tagPackageName      = "PackageName"

	// 1.5
	tagReleaseVersion     = "ReleaseVersion"
	tagMajor              = "Major"
	tagMinor              = "Minor"
	tagPatch              = "Patch"
	tagBuild              = "Build"
	tagReleaseDescription = "ReleaseDescription"
	tagInfoPageLinks      = "InfoPageLinks"
	tagDownloadLinks      = "DownloadLinks"
	tagURL                = "URL"
	tagDescription        = "Description"
	tagTargetPlatforms    = "TargetPlatforms"
	tagPackageType        = "PackageType"

	// 1.3
	tagVersionString = "VersionString"
	tagReleaseDate   = "ReleaseDate"
	tagInfoPageURL   = "InfoPageURL"
	tagDownloadURL   = "DownloadURL"
	tagTargetInfo    = "TargetInfo"
)

// ParseManifest decodes a version manifest of any supported schema into the
// canonical model. Schema 1.3 and 1.5 documents are upgraded to the 1.6 shape.
// The returned UpdateInfo has IsUpdateAvailable unset.
func ParseManifest(data []byte) (*UpdateInfo, error) {
	info, _, err := ParseManifestSchema(data)
	return info, err
}

// ParseManifestSchema is ParseManifest that also reports the schema version
// the document declared. The schema is empty when it could not be read.
func ParseManifestSchema(data []byte) (*UpdateInfo, string, error) {
	c := &collector{}
	info, schema := parseManifest(data, c)
	if c.failed() {
		return nil, schema, c.err()
	}
	log.WithFields(log.Fields{"schema": schema, "releases": len(info.Releases)}).Debug("parsed version file")
	return info, schema, nil
}

func parseManifest(data []byte, c *collector) (*UpdateInfo, string) {
	v, err := decodeValue(data)
	if err != nil {
		c.schema(parseFailure(err))
		return nil, ""
	}

	doc := asObject(v)
	raw, ok := lookup(doc, tagSchemaVersion)
	if len(doc) == 0 || !ok {
		c.schema(MissingEntry(tagSchemaVersion))
		return nil, ""
	}
	schema, err := asString(raw, tagSchemaVersion)
	if err != nil {
		c.schema(parseFailure(err))
		return nil, ""
	}

	switch schema {
	case SchemaVersion13:
		m, err := parseSchema13(doc, c)
		if err != nil {
			c.schema(parseFailure(err))
		}
		if c.failed() {
			return nil, schema
		}
		return upgrade15(m), schema
	case SchemaVersion15:
		m, err := parseSchema15(doc, c)
		if err != nil {
			c.schema(parseFailure(err))
		}
		if c.failed() {
			return nil, schema
		}
		return upgrade15(m), schema
	case SchemaVersion16:
		info, err := parseSchema16(doc, c)
		if err != nil {
			c.schema(parseFailure(err))
		}
		if c.failed() {
			return nil, schema
		}
		return info, schema
	default:
		c.add(KindSemantic, MsgUnsupportedSchemaVersion)
		return nil, schema
	}
}

func parseFailure(err error) string {
	return MsgFailedToParseVersionFile + " " + err.Error()
}

// parseInfoLinks reads a non-empty list of {URL, Description} objects.
// listTag names the list in empty/incomplete messages.
func parseInfoLinks(v any, listTag string, c *collector) ([]InfoPageLink, error) {
	items, err := asList(v, listTag)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		c.schema(EmptyList(listTag))
		return nil, nil
	}

	var links []InfoPageLink
	for _, it := range items {
		o := asObject(it)
		rawURL, hasURL := lookup(o, tagURL)
		rawDesc, hasDesc := lookup(o, tagDescription)
		if !hasURL || !hasDesc {
			c.schema(IncompleteEntry(listTag))
			continue
		}
		url, err := asString(rawURL, listTag+"."+tagURL)
		if err != nil {
			return nil, err
		}
		desc, err := asString(rawDesc, listTag+"."+tagDescription)
		if err != nil {
			return nil, err
		}
		links = append(links, InfoPageLink{URL: url, Description: desc})
	}
	return links, nil
}

// parseReleaseVersion reads a {Major, Minor, Patch, Build} object. Each part
// defaults to zero; the object is invalid only when all four are absent.
func parseReleaseVersion(v any, c *collector) (Version, error) {
	o := asObject(v)
	var ver Version
	parts := []struct {
		tag string
		dst *uint32
	}{
		{tagMajor, &ver.Major},
		{tagMinor, &ver.Minor},
		{tagPatch, &ver.Patch},
		{tagBuild, &ver.Build},
	}

	found := false
	for _, p := range parts {
		raw, ok := lookup(o, p.tag)
		if !ok {
			continue
		}
		found = true
		n, err := asUint32(raw, tagReleaseVersion+"."+p.tag)
		if err != nil {
			return Version{}, err
		}
		*p.dst = n
	}
	if !found {
		c.schema(MsgInvalidReleaseVersion)
	}
	return ver, nil
}

func parsePlatform(s string) (TargetPlatform, bool) {
	switch s {
	case tokenWindows:
		return PlatformWindows, true
	case tokenUbuntu:
		return PlatformUbuntu, true
	case tokenRHEL:
		return PlatformRHEL, true
	case tokenDarwin:
		return PlatformDarwin, true
	default:
		return PlatformUnknown, false
	}
}

func parsePackageType(s string) (PackageType, bool) {
	switch s {
	case tokenZip:
		return PackageZip, true
	case tokenMsi:
		return PackageMsi, true
	case tokenTar:
		return PackageTar, true
	case tokenRpm:
		return PackageRpm, true
	case tokenDebian:
		return PackageDebian, true
	default:
		return PackageUnknown, false
	}
}

func parseReleaseType(s string) (ReleaseType, bool) {
	switch s {
	case tokenGA:
		return ReleaseGeneralAvailability, true
	case tokenBeta:
		return ReleaseBeta, true
	case tokenAlpha:
		return ReleaseAlpha, true
	case tokenPatch:
		return ReleasePatch, true
	case tokenDevelopment:
		return ReleaseDevelopment, true
	default:
		return ReleaseUnknown, false
	}
}

// parsePlatformList reads a non-empty list of platform tokens. Reading stops
// at the first unknown token. listTag names the list in messages.
func parsePlatformList(v any, listTag string, c *collector) ([]TargetPlatform, bool, error) {
	tokens, err := stringList(v, listTag)
	if err != nil {
		return nil, false, err
	}
	if len(tokens) == 0 {
		c.schema(EmptyList(listTag))
		return nil, false, nil
	}
	platforms := make([]TargetPlatform, 0, len(tokens))
	for _, tok := range tokens {
		p, ok := parsePlatform(tok)
		if !ok {
			c.schema(InvalidValue(listTag))
			return platforms, false, nil
		}
		platforms = append(platforms, p)
	}
	return platforms, true, nil
}

// requiredString looks up a string tag, recording a missing-entry message when absent.
func requiredString(o object, tag string, c *collector) (string, bool, error) {
	raw, ok := lookup(o, tag)
	if !ok {
		c.schema(MissingEntry(tag))
		return "", false, nil
	}
	s, err := asString(raw, tag)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}
