package files

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
)

// MinFreeBytes is the free space a temp directory needs to hold a manifest
// and a GitHub release object.
const MinFreeBytes = 1 << 20

// ErrNotDirectory is returned when the temp path exists but is a file.
var ErrNotDirectory = errors.New("temp path is not a directory")

// TempDir returns the directory for downloaded manifests: TMPDIR or /tmp on
// unix, os.TempDir on Windows. The directory must exist and be writable.
func TempDir() (string, error) {
	dir := defaultTempDir()
	if err := ValidateDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func defaultTempDir() string {
	if runtime.GOOS == "windows" {
		return os.TempDir()
	}
	if d := os.Getenv("TMPDIR"); d != "" {
		return d
	}
	return "/tmp"
}

// ValidateDir checks that dir exists, is a directory, accepts new files and
// has at least MinFreeBytes available. Free space is only checked where the
// platform reports it.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("temp directory: empty path")
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("temp directory %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("temp directory %s: %w", dir, ErrNotDirectory)
	}

	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("temp directory %s is not writable: %w", dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	if usage, err := disk.Usage(dir); err == nil && usage.Free < MinFreeBytes {
		return fmt.Errorf("temp directory %s: only %d bytes free", dir, usage.Free)
	}
	return nil
}
