package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	cacheFileName = ".update-check"

	// DefaultCacheTTL is how long a cached result is reused.
	DefaultCacheTTL = 10 * time.Minute
)

// CacheEntry stores the last update check result
type CacheEntry struct {
	Key       string       `json:"key"`
	CheckedAt time.Time    `json:"checked_at"`
	Result    *CheckResult `json:"result"`
}

// CacheKey identifies the inputs of a check. A result is only reused for the
// same location, file, current version, compared version and platform;
// compared differs from current while AssumeVersionEnv is set.
func CacheKey(location, filename string, current, compared Version, p TargetPlatform) string {
	s := strings.Join([]string{location, filename, current.String(), compared.String(), p.String()}, "\x00")
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}

// GetCachePath returns the path to the cache file
func GetCachePath(homeDir string) string {
	return filepath.Join(homeDir, cacheFileName)
}

// LoadCache loads the cached update check result
func LoadCache(homeDir string) (*CacheEntry, error) {
	data, err := os.ReadFile(GetCachePath(homeDir))
	if err != nil {
		return nil, err
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveCache saves the update check result
func SaveCache(homeDir string, entry *CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(GetCachePath(homeDir), data, 0o644)
}

// IsCacheValid reports whether entry was stored for key less than ttl ago.
func IsCacheValid(entry *CacheEntry, key string, ttl time.Duration) bool {
	if entry == nil || entry.Result == nil || entry.Key != key {
		return false
	}
	return time.Since(entry.CheckedAt) < ttl
}

// CachedCheck returns a fresh cached result for key, if any.
func CachedCheck(homeDir, key string, ttl time.Duration) (*CheckResult, bool) {
	entry, err := LoadCache(homeDir)
	if err != nil || !IsCacheValid(entry, key, ttl) {
		return nil, false
	}
	return entry.Result, true
}
