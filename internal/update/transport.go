package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/GPUOpen-Tools/update-check-api/internal/files"
)

const (
	jsonExtension = ".json"
	httpPrefix    = "http"
	scratchPrefix = "update-check-"

	// fallbackDownloadName is used when a URL has no final path segment.
	fallbackDownloadName = "download.json"
)

// Strategy is how a location is turned into manifest bytes.
type Strategy int

const (
	StrategyLocal Strategy = iota
	StrategyHTTP
	StrategyGitHub
)

func (s Strategy) String() string {
	switch s {
	case StrategyGitHub:
		return "github"
	case StrategyHTTP:
		return "http"
	default:
		return "local"
	}
}

// StrategyFor picks the transport for location. The GitHub marker is
// checked before the http prefix since release API URLs are also http URLs.
func StrategyFor(location string) Strategy {
	switch {
	case strings.Contains(location, releasesLatestMarker):
		return StrategyGitHub
	case strings.HasPrefix(location, httpPrefix):
		return StrategyHTTP
	default:
		return StrategyLocal
	}
}

// TempDirFunc returns a usable temporary directory.
type TempDirFunc func() (string, error)

// Resolver produces the raw bytes of a manifest.
type Resolver struct {
	fetcher Fetcher
	tempDir TempDirFunc
}

// NewResolver returns a resolver downloading through f. A nil f downloads in
// process and a nil tempDir uses files.TempDir.
func NewResolver(f Fetcher, tempDir TempDirFunc) *Resolver {
	if f == nil {
		f = NewHTTPFetcher()
	}
	if tempDir == nil {
		tempDir = files.TempDir
	}
	return &Resolver{fetcher: f, tempDir: tempDir}
}

// Resolve loads the manifest called filename from location. Failures are
// reported as a *CheckError; a cancelled ctx is returned as ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, location, filename string) ([]byte, error) {
	c := &collector{}
	data, err := r.resolve(ctx, location, filename, c)
	if err != nil {
		return nil, err
	}
	if c.failed() {
		return nil, c.err()
	}
	return data, nil
}

func (r *Resolver) resolve(ctx context.Context, location, filename string, c *collector) ([]byte, error) {
	if !strings.HasSuffix(filename, jsonExtension) {
		c.add(KindInternal, MsgURLMustPointToJSON)
		return nil, nil
	}

	strategy := StrategyFor(location)
	log.WithFields(log.Fields{"strategy": strategy.String(), "location": location, "file": filename}).Debug("resolving version file")

	switch strategy {
	case StrategyGitHub:
		return r.fromGitHub(ctx, location, filename, c)
	case StrategyHTTP:
		dir, cleanup, ok := r.scratch(c)
		if !ok {
			return nil, nil
		}
		defer cleanup()
		return r.download(ctx, joinLocation(location, filename), dir, c)
	default:
		return loadFile(joinLocation(location, filename), c), nil
	}
}

func (r *Resolver) fromGitHub(ctx context.Context, location, filename string, c *collector) ([]byte, error) {
	dir, cleanup, ok := r.scratch(c)
	if !ok {
		return nil, nil
	}
	defer cleanup()

	releasePath := filepath.Join(dir, latestReleaseFilename)
	launched, err := r.fetch(ctx, location, releasePath, c)
	if err != nil || !launched {
		return nil, err
	}
	data := loadFile(releasePath, c)
	if data == nil {
		return nil, nil
	}

	rel, ok := decodeLatestRelease(data, c)
	if !ok {
		return nil, nil
	}
	url, ok := rel.assetURL(filename, c)
	if !ok {
		return nil, nil
	}
	return r.download(ctx, url, dir, c)
}

// download fetches url into dir under its own last path segment.
func (r *Resolver) download(ctx context.Context, url, dir string, c *collector) ([]byte, error) {
	local := filepath.Join(dir, localName(url))
	_ = os.Remove(local)

	launched, err := r.fetch(ctx, url, local, c)
	if err != nil || !launched {
		return nil, err
	}
	return loadFile(local, c), nil
}

// fetch runs the fetcher and reports whether loading the result is worthwhile.
// Download failures after launch are left to loadFile to report.
func (r *Resolver) fetch(ctx context.Context, url, local string, c *collector) (bool, error) {
	err := r.fetcher.Fetch(ctx, url, local)
	if err == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if errors.Is(err, ErrLaunch) {
		c.add(KindTransport, MsgFailedToLaunchDownloader)
		return false, nil
	}
	log.WithError(err).WithField("url", url).Debug("download failed")
	return true, nil
}

// scratch creates a directory private to this resolve so that concurrent
// checks never share temp files.
func (r *Resolver) scratch(c *collector) (string, func(), bool) {
	tmp, err := r.tempDir()
	if err != nil || tmp == "" {
		if err != nil {
			log.WithError(err).Debug("no temp directory")
		}
		c.add(KindTransport, MsgUnableToFindTempDirectory)
		return "", nil, false
	}
	dir := filepath.Join(tmp, scratchPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.WithError(err).Debug("failed to create scratch directory")
		c.add(KindTransport, MsgUnableToFindTempDirectory)
		return "", nil, false
	}
	return dir, func() { _ = os.RemoveAll(dir) }, true
}

func loadFile(path string, c *collector) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		c.add(KindTransport, MsgFailedToLoadVersionFile)
		return nil
	}
	if len(data) == 0 {
		c.add(KindTransport, MsgDownloadedEmptyVersionFile)
		return nil
	}
	return data
}

// joinLocation appends filename to location with a "/" separator, omitting
// whichever part is empty.
func joinLocation(location, filename string) string {
	switch {
	case filename == "":
		return location
	case location == "":
		return filename
	default:
		return location + "/" + filename
	}
}

// localName is the last path segment of url, after the final '/' or '\' and
// before any query string.
func localName(url string) string {
	name := url
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == ".." {
		return fallbackDownloadName
	}
	return name
}
