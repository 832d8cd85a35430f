package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// HelperName is the download helper binary.
const HelperName = "rtda"

// DefaultHelperPath returns the helper installed next to the running
// executable, falling back to the working directory.
func DefaultHelperPath() string {
	name := HelperName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if runtime.GOOS == "windows" {
		return name
	}
	return "./" + name
}

// HelperFetcher downloads by running the helper as `<path> <url> <local_path>`.
type HelperFetcher struct {
	Runner CommandRunner
	Path   string
}

// NewHelperFetcher returns a fetcher running the helper at path with a
// default Runner. An empty path uses DefaultHelperPath.
func NewHelperFetcher(path string) *HelperFetcher {
	if path == "" {
		path = DefaultHelperPath()
	}
	return &HelperFetcher{Runner: NewRunner(), Path: path}
}

// Fetch implements update.Fetcher. A helper that cannot be started yields an
// error wrapping update.ErrLaunch.
func (f *HelperFetcher) Fetch(ctx context.Context, url, localPath string) error {
	res, err := f.Runner.Run(ctx, f.Path, url, localPath)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrStart):
		return fmt.Errorf("%w: %v", update.ErrLaunch, err)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		if msg := strings.TrimSpace(string(res.Output)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
}
