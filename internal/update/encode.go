package update

import "fmt"

// Wire shapes of a schema 1.6 document. Field order matches the order the
// parser reads them.
type (
	manifestDoc16 struct {
		SchemaVersion string       `json:"SchemaVersion"`
		Releases      []releaseDoc `json:"Releases"`
	}

	releaseDoc struct {
		ReleaseVersion   versionDoc    `json:"ReleaseVersion"`
		ReleaseDate      string        `json:"ReleaseDate"`
		ReleaseTitle     string        `json:"ReleaseTitle"`
		ReleaseType      string        `json:"ReleaseType"`
		ReleasePlatforms []string      `json:"ReleasePlatforms"`
		ReleaseTags      []string      `json:"ReleaseTags"`
		InfoPageLinks    []infoLinkDoc `json:"InfoPageLinks"`
		DownloadLinks    []linkDoc     `json:"DownloadLinks"`
	}

	versionDoc struct {
		Major uint32 `json:"Major"`
		Minor uint32 `json:"Minor"`
		Patch uint32 `json:"Patch"`
		Build uint32 `json:"Build"`
	}

	infoLinkDoc struct {
		URL         string `json:"URL"`
		Description string `json:"Description"`
	}

	linkDoc struct {
		URL         string `json:"URL"`
		PackageType string `json:"PackageType"`
		PackageName string `json:"PackageName,omitempty"`
	}
)

// MarshalManifest renders info as an indented schema 1.6 document.
// IsUpdateAvailable is not part of the manifest and is dropped.
func MarshalManifest(info *UpdateInfo) ([]byte, error) {
	if info == nil {
		return nil, fmt.Errorf("marshal manifest: nil update info")
	}
	doc := manifestDoc16{
		SchemaVersion: CurrentSchemaVersion,
		Releases:      make([]releaseDoc, 0, len(info.Releases)),
	}
	for i, r := range info.Releases {
		if r.Type == ReleaseUnknown {
			return nil, fmt.Errorf("marshal manifest: release %d has no release type", i)
		}
		rd := releaseDoc{
			ReleaseVersion: versionDoc{
				Major: r.Version.Major,
				Minor: r.Version.Minor,
				Patch: r.Version.Patch,
				Build: r.Version.Build,
			},
			ReleaseDate:      r.Date,
			ReleaseTitle:     r.Title,
			ReleaseType:      r.Type.String(),
			ReleasePlatforms: make([]string, 0, len(r.TargetPlatforms)),
			ReleaseTags:      append([]string{}, r.Tags...),
			InfoPageLinks:    make([]infoLinkDoc, 0, len(r.InfoLinks)),
			DownloadLinks:    make([]linkDoc, 0, len(r.DownloadLinks)),
		}
		for _, p := range r.TargetPlatforms {
			rd.ReleasePlatforms = append(rd.ReleasePlatforms, p.String())
		}
		for _, l := range r.InfoLinks {
			rd.InfoPageLinks = append(rd.InfoPageLinks, infoLinkDoc{URL: l.URL, Description: l.Description})
		}
		for _, l := range r.DownloadLinks {
			rd.DownloadLinks = append(rd.DownloadLinks, linkDoc{
				URL:         l.URL,
				PackageType: l.PackageType.String(),
				PackageName: l.PackageName,
			})
		}
		doc.Releases = append(doc.Releases, rd)
	}
	return json.MarshalIndent(doc, "", "    ")
}
