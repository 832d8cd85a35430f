package update

// parseSchema15 reads a 1.5 document. One version, date and description are
// shared by every download link; each link carries its own platforms and types.
func parseSchema15(doc object, c *collector) (*manifest15, error) {
	m := &manifest15{}
	var err error

	if raw, ok := lookup(doc, tagReleaseVersion); !ok {
		c.schema(MissingEntry(tagReleaseVersion))
	} else if m.version, err = parseReleaseVersion(raw, c); err != nil {
		return nil, err
	}

	if m.date, _, err = requiredString(doc, tagReleaseDate, c); err != nil {
		return nil, err
	}
	if m.description, _, err = requiredString(doc, tagReleaseDescription, c); err != nil {
		return nil, err
	}

	if raw, ok := lookup(doc, tagInfoPageLinks); !ok {
		c.schema(MissingEntry(tagInfoPageLinks))
	} else if m.infoLinks, err = parseInfoLinks(raw, tagInfoPageLinks, c); err != nil {
		return nil, err
	}

	raw, ok := lookup(doc, tagDownloadLinks)
	if !ok {
		c.schema(MissingEntry(tagDownloadLinks))
		return m, nil
	}
	items, err := asList(raw, tagDownloadLinks)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		c.schema(EmptyList(tagDownloadLinks))
		return m, nil
	}
	for _, it := range items {
		pkg, ok, err := parseLink15(asObject(it), c)
		if err != nil {
			return nil, err
		}
		if ok {
			m.packages = append(m.packages, pkg)
		}
	}
	return m, nil
}

// parseLink15 validates one 1.5 download link. The first missing field is the
// only one reported; token checks run only on a complete link.
func parseLink15(o object, c *collector) (package15, bool, error) {
	rawURL, hasURL := lookup(o, tagURL)
	rawPlatforms, hasPlatforms := lookup(o, tagTargetPlatforms)
	rawPackage, hasPackage := lookup(o, tagPackageType)
	rawRelease, hasRelease := lookup(o, tagReleaseType)

	switch {
	case !hasURL:
		c.schema(MissingEntry(tagURL))
		return package15{}, false, nil
	case !hasPlatforms:
		c.schema(MissingEntry(tagTargetPlatforms))
		return package15{}, false, nil
	case !hasPackage:
		c.schema(MissingEntry(tagPackageType))
		return package15{}, false, nil
	case !hasRelease:
		c.schema(MissingEntry(tagReleaseType))
		return package15{}, false, nil
	}

	url, err := asString(rawURL, tagDownloadLinks+"."+tagURL)
	if err != nil {
		return package15{}, false, err
	}

	releaseToken, err := asString(rawRelease, tagDownloadLinks+"."+tagReleaseType)
	if err != nil {
		return package15{}, false, err
	}
	releaseType, ok := parseReleaseType(releaseToken)
	if !ok {
		c.schema(InvalidValue(tagReleaseType))
		return package15{}, false, nil
	}

	packageToken, err := asString(rawPackage, tagDownloadLinks+"."+tagPackageType)
	if err != nil {
		return package15{}, false, err
	}
	packageType, ok := parsePackageType(packageToken)
	if !ok {
		c.schema(InvalidValue(tagPackageType))
		return package15{}, false, nil
	}

	platforms, ok, err := parsePlatformList(rawPlatforms, tagTargetPlatforms, c)
	if err != nil || !ok {
		return package15{}, false, err
	}

	return package15{
		url:             url,
		packageType:     packageType,
		releaseType:     releaseType,
		targetPlatforms: platforms,
	}, true, nil
}
