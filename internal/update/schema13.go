package update

// Schema 1.3 TargetInfo tokens: each names a platform and a package type.
const (
	targetInfoWindowsZip  = "Windows_ZIP"
	targetInfoWindowsMsi  = "Windows_MSI"
	targetInfoLinuxTar    = "Linux_TAR"
	targetInfoLinuxRpm    = "Linux_RPM"
	targetInfoLinuxDebian = "Linux_Debian"
)

func parseTargetInfo(s string) (TargetPlatform, PackageType, bool) {
	switch s {
	case targetInfoWindowsZip:
		return PlatformWindows, PackageZip, true
	case targetInfoWindowsMsi:
		return PlatformWindows, PackageMsi, true
	case targetInfoLinuxTar:
		return PlatformUbuntu, PackageTar, true
	case targetInfoLinuxRpm:
		return PlatformUbuntu, PackageRpm, true
	case targetInfoLinuxDebian:
		return PlatformUbuntu, PackageDebian, true
	default:
		return PlatformUnknown, PackageUnknown, false
	}
}

// parseSchema13 reads the flat 1.3 layout into the 1.5 intermediate.
// Every top-level section is checked even after an earlier one failed.
func parseSchema13(doc object, c *collector) (*manifest15, error) {
	m := &manifest15{}

	s, ok, err := requiredString(doc, tagVersionString, c)
	if err != nil {
		return nil, err
	}
	if ok {
		v, valid := parseVersionString13(s)
		if !valid {
			c.schema(MsgInvalidReleaseVersion)
		}
		m.version = v
	}

	if m.date, _, err = requiredString(doc, tagReleaseDate, c); err != nil {
		return nil, err
	}
	if m.description, _, err = requiredString(doc, tagDescription, c); err != nil {
		return nil, err
	}

	if raw, ok := lookup(doc, tagInfoPageURL); !ok {
		c.schema(MissingEntry(tagInfoPageURL))
	} else if m.infoLinks, err = parseInfoLinks(raw, tagInfoPageURL, c); err != nil {
		return nil, err
	}

	raw, ok := lookup(doc, tagDownloadURL)
	if !ok {
		c.schema(MissingEntry(tagDownloadURL))
		return m, nil
	}
	items, err := asList(raw, tagDownloadURL)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		c.schema(EmptyList(tagDownloadURL))
		return m, nil
	}
	for _, it := range items {
		o := asObject(it)
		rawURL, hasURL := lookup(o, tagURL)
		rawTarget, hasTarget := lookup(o, tagTargetInfo)
		if !hasURL || !hasTarget {
			c.schema(IncompleteEntry(tagDownloadURL))
			continue
		}
		target, err := asString(rawTarget, tagDownloadURL+"."+tagTargetInfo)
		if err != nil {
			return nil, err
		}
		platform, pkg, known := parseTargetInfo(target)
		if !known {
			c.schema(InvalidValue(tagTargetInfo))
			continue
		}
		url, err := asString(rawURL, tagDownloadURL+"."+tagURL)
		if err != nil {
			return nil, err
		}
		// 1.3 predates release types; everything published then was GA.
		m.packages = append(m.packages, package15{
			url:             url,
			packageType:     pkg,
			releaseType:     ReleaseGeneralAvailability,
			targetPlatforms: []TargetPlatform{platform},
		})
	}
	return m, nil
}
