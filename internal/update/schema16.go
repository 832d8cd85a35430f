package update

// parseSchema16 reads the canonical layout: a list of self-contained releases.
func parseSchema16(doc object, c *collector) (*UpdateInfo, error) {
	info := &UpdateInfo{}

	raw, ok := lookup(doc, tagReleases)
	if !ok {
		c.schema(MissingEntry(tagReleases))
		return info, nil
	}
	items, err := asList(raw, tagReleases)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		c.schema(EmptyList(tagReleases))
		return info, nil
	}

	for _, it := range items {
		rel, err := parseRelease16(asObject(it), c)
		if err != nil {
			return nil, err
		}
		info.Releases = append(info.Releases, rel)
	}
	return info, nil
}

func parseRelease16(o object, c *collector) (ReleaseInfo, error) {
	var rel ReleaseInfo
	var err error

	if raw, ok := lookup(o, tagReleaseVersion); !ok {
		c.schema(MissingEntry(tagReleaseVersion))
	} else if rel.Version, err = parseReleaseVersion(raw, c); err != nil {
		return rel, err
	}

	if rel.Date, _, err = requiredString(o, tagReleaseDate, c); err != nil {
		return rel, err
	}
	if rel.Title, _, err = requiredString(o, tagReleaseTitle, c); err != nil {
		return rel, err
	}

	token, ok, err := requiredString(o, tagReleaseType, c)
	if err != nil {
		return rel, err
	}
	if ok {
		if rel.Type, ok = parseReleaseType(token); !ok {
			c.schema(InvalidValue(tagReleaseType))
		}
	}

	if raw, ok := lookup(o, tagReleasePlatforms); !ok {
		c.schema(MissingEntry(tagReleasePlatforms))
	} else if rel.TargetPlatforms, _, err = parsePlatformList(raw, tagReleasePlatforms, c); err != nil {
		return rel, err
	}

	if raw, ok := lookup(o, tagReleaseTags); !ok {
		c.schema(MissingEntry(tagReleaseTags))
	} else if rel.Tags, err = stringList(raw, tagReleaseTags); err != nil {
		return rel, err
	}

	if raw, ok := lookup(o, tagInfoPageLinks); !ok {
		c.schema(MissingEntry(tagInfoPageLinks))
	} else if rel.InfoLinks, err = parseInfoLinks(raw, tagInfoPageLinks, c); err != nil {
		return rel, err
	}

	// Links are not examined once anything in the document is already wrong.
	if c.failed() {
		return rel, nil
	}
	rel.DownloadLinks, err = parseLinks16(o, c)
	return rel, err
}

func parseLinks16(o object, c *collector) ([]DownloadLink, error) {
	raw, ok := lookup(o, tagDownloadLinks)
	if !ok {
		c.schema(MissingEntry(tagDownloadLinks))
		return nil, nil
	}
	items, err := asList(raw, tagDownloadLinks)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		c.schema(EmptyList(tagDownloadLinks))
		return nil, nil
	}

	var links []DownloadLink
	for _, it := range items {
		lo := asObject(it)
		rawURL, hasURL := lookup(lo, tagURL)
		rawPackage, hasPackage := lookup(lo, tagPackageType)
		if !hasURL {
			c.schema(MissingEntry(tagURL))
			continue
		}
		if !hasPackage {
			c.schema(MissingEntry(tagPackageType))
			continue
		}

		token, err := asString(rawPackage, tagDownloadLinks+"."+tagPackageType)
		if err != nil {
			return nil, err
		}
		pkg, ok := parsePackageType(token)
		if !ok {
			c.schema(InvalidValue(tagPackageType))
			continue
		}
		url, err := asString(rawURL, tagDownloadLinks+"."+tagURL)
		if err != nil {
			return nil, err
		}

		link := DownloadLink{URL: url, PackageType: pkg}
		if rawName, ok := lookup(lo, tagPackageName); ok {
			if link.PackageName, err = asString(rawName, tagDownloadLinks+"."+tagPackageName); err != nil {
				return nil, err
			}
		}
		links = append(links, link)
	}
	return links, nil
}
