package update

import "slices"

// upgrade15 regroups the flat 1.5 package list into canonical releases keyed
// by (platforms, release type). Release order follows the first occurrence of
// each key; links keep input order. It cannot fail.
func upgrade15(m *manifest15) *UpdateInfo {
	info := &UpdateInfo{}
	for _, pkg := range m.packages {
		link := DownloadLink{URL: pkg.url, PackageType: pkg.packageType}

		i := slices.IndexFunc(info.Releases, func(r ReleaseInfo) bool {
			return r.Type == pkg.releaseType && slices.Equal(r.TargetPlatforms, pkg.targetPlatforms)
		})
		if i >= 0 {
			info.Releases[i].DownloadLinks = append(info.Releases[i].DownloadLinks, link)
			continue
		}

		tags := make([]string, 0, len(pkg.targetPlatforms)+1)
		for _, p := range pkg.targetPlatforms {
			tags = append(tags, p.String())
		}
		tags = append(tags, pkg.releaseType.String())

		info.Releases = append(info.Releases, ReleaseInfo{
			Version:         m.version,
			Date:            m.date,
			Title:           m.description,
			TargetPlatforms: slices.Clone(pkg.targetPlatforms),
			Type:            pkg.releaseType,
			Tags:            tags,
			DownloadLinks:   []DownloadLink{link},
			InfoLinks:       slices.Clone(m.infoLinks),
		})
	}
	return info
}
