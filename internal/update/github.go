package update

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
)

const (
	// releasesLatestMarker selects the GitHub release indirection, e.g.
	// https://api.github.com/repos/<owner>/<repo>/releases/latest
	releasesLatestMarker = "/releases/latest"

	// latestReleaseFilename is the local name of the downloaded release object.
	latestReleaseFilename = "AMDToolsLatestRelease.json"

	githubAccept = "application/vnd.github.v3+json"
)

// githubRelease is the subset of the GitHub release object that is consumed.
// Pointer fields tell an absent key from an empty one.
type githubRelease struct {
	TagName string         `json:"tag_name"`
	Assets  *[]githubAsset `json:"assets"`
	Message *string        `json:"message"`
}

type githubAsset struct {
	Name               string  `json:"name"`
	BrowserDownloadURL *string `json:"browser_download_url"`
}

// decodeLatestRelease parses a release object. Restricted networks may serve
// an HTML page instead, so a decode failure is reported rather than fatal.
func decodeLatestRelease(data []byte, c *collector) (*githubRelease, bool) {
	var rel githubRelease
	if err := json.Unmarshal(data, &rel); err != nil {
		c.schema(MsgFailedToLoadLatestRelease + " " + err.Error())
		return nil, false
	}
	if rel.TagName != "" {
		log.WithField("tag", releaseTag(rel.TagName)).Debug("loaded latest release")
	}
	return &rel, true
}

// assetURL finds the download URL of the asset called name. On failure the
// API's own message, such as a rate limit notice, is recorded too.
func (r *githubRelease) assetURL(name string, c *collector) (string, bool) {
	url, ok := r.findAsset(name, c)
	if !ok && r.Message != nil {
		c.add(KindSemantic, *r.Message)
	}
	return url, ok
}

func (r *githubRelease) findAsset(name string, c *collector) (string, bool) {
	if r.Assets == nil {
		c.add(KindSemantic, MsgMissingAssetsElement)
		return "", false
	}
	for _, a := range *r.Assets {
		if a.Name != name {
			continue
		}
		if a.BrowserDownloadURL == nil {
			c.add(KindSemantic, MsgDownloadURLNotFoundInAsset)
			return "", false
		}
		return *a.BrowserDownloadURL, true
	}
	c.add(KindSemantic, MsgAssetNotFound)
	return "", false
}

// releaseTag normalises a tag such as "2.1" or "v2.1.0" to canonical semver
// for logging. Tags that are not semver are returned unchanged.
func releaseTag(tag string) string {
	v := tag
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if c := semver.Canonical(v); c != "" {
		return c
	}
	return tag
}
