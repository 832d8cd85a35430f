package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	httpTimeout      = 30 * time.Second
	defaultUserAgent = "update-check-api"
)

// ErrLaunch is returned by a Fetcher whose download helper could not be started.
var ErrLaunch = errors.New("download helper could not be launched")

// Fetcher downloads url into localPath. A download that fails after the
// helper started should leave localPath missing or empty.
type Fetcher interface {
	Fetch(ctx context.Context, url, localPath string) error
}

// HTTPDoer is the part of *http.Client used for downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProgressFunc is called during download with bytes downloaded and total size
type ProgressFunc func(downloaded, total int64)

// HTTPFetcher downloads in process.
type HTTPFetcher struct {
	Client    HTTPDoer // nil uses an http.Client with a 30s timeout
	UserAgent string
	Progress  ProgressFunc
}

// NewHTTPFetcher returns a fetcher using the default client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{}
}

// Fetch streams url into localPath. The file is only created once the server
// answered 200 OK, and removed again if the body could not be copied.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, localPath string) error {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if strings.Contains(url, "api.github.com") {
		req.Header.Set("Accept", githubAccept)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return err
	}

	var reader io.Reader = resp.Body
	if f.Progress != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			progress: f.Progress,
		}
	}

	_, copyErr := io.Copy(out, reader)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(localPath)
		return fmt.Errorf("failed to write %s: %w", localPath, errors.Join(copyErr, closeErr))
	}
	return nil
}

// progressReader wraps a reader to report progress
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	progress   ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.downloaded += int64(n)
	if pr.progress != nil {
		pr.progress(pr.downloaded, pr.total)
	}
	return n, err
}
