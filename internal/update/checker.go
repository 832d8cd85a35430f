package update

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Source produces the raw bytes of a manifest. *Resolver is the production source.
type Source interface {
	Resolve(ctx context.Context, location, filename string) ([]byte, error)
}

// Checker runs update checks. A Checker holds no per-check state and may be
// used from several goroutines at once.
type Checker struct {
	source    Source
	platform  TargetPlatform
	lookupEnv LookupEnvFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithSource replaces the default resolver.
func WithSource(s Source) Option {
	return func(c *Checker) { c.source = s }
}

// WithFetcher keeps the default resolver but downloads through f.
func WithFetcher(f Fetcher) Option {
	return func(c *Checker) { c.source = NewResolver(f, nil) }
}

// WithPlatform sets the platform releases are filtered to.
func WithPlatform(p TargetPlatform) Option {
	return func(c *Checker) { c.platform = p }
}

// WithLookupEnv replaces os.LookupEnv for the version override.
func WithLookupEnv(f LookupEnvFunc) Option {
	return func(c *Checker) { c.lookupEnv = f }
}

// NewChecker returns a checker for CurrentPlatform that downloads in process.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{platform: CurrentPlatform}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = NewResolver(nil, nil)
	}
	return c
}

// Platform is the platform releases are filtered to.
func (c *Checker) Platform() TargetPlatform { return c.platform }

// CheckForUpdates loads the manifest filename from location, keeps the
// releases for the checker's platform and flags whether one is newer than
// current (or the version named by AssumeVersionEnv).
//
// On failure the returned info is nil and the error is a *CheckError holding
// every message gathered, or ctx.Err() when the check was cancelled.
func (c *Checker) CheckForUpdates(ctx context.Context, current Version, location, filename string) (*UpdateInfo, error) {
	data, err := c.source.Resolve(ctx, location, filename)
	if err != nil {
		return nil, err
	}
	info, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if !FilterToPlatform(info, c.platform) {
		log.WithField("platform", c.platform.String()).Debug("no releases for this platform")
		return info, nil
	}
	MarkUpdates(info, c.ReferenceVersion(current))
	return info, nil
}

// Check is CheckForUpdates wrapped into a CheckResult for reporting and caching.
func (c *Checker) Check(ctx context.Context, current Version, location, filename string) (*CheckResult, error) {
	id := uuid.NewString()
	logger := log.WithFields(log.Fields{"check_id": id, "location": location, "file": filename})
	logger.Debug("checking for updates")

	info, err := c.CheckForUpdates(ctx, current, location, filename)
	if err != nil {
		logger.WithError(err).Debug("update check failed")
		return nil, err
	}
	logger.WithFields(log.Fields{
		"releases":         len(info.Releases),
		"update_available": info.IsUpdateAvailable,
	}).Info("update check complete")

	return c.result(id, current, location, filename, info), nil
}

// Result wraps info from a check run elsewhere, such as by a worker, into a
// CheckResult with a new id.
func (c *Checker) Result(current Version, location, filename string, info *UpdateInfo) *CheckResult {
	return c.result(uuid.NewString(), current, location, filename, info)
}

// ReferenceVersion is the version releases are compared against for current,
// honouring AssumeVersionEnv through the checker's environment lookup.
func (c *Checker) ReferenceVersion(current Version) Version {
	return ReferenceVersion(current, c.lookupEnv)
}

func (c *Checker) result(id string, current Version, location, filename string, info *UpdateInfo) *CheckResult {
	return &CheckResult{
		CheckID:         id,
		CurrentVersion:  current.String(),
		ComparedVersion: c.ReferenceVersion(current).String(),
		Platform:        c.platform.String(),
		Location:        location,
		Filename:        filename,
		Info:            info,
	}
}

// CheckForUpdates runs a check with a default Checker.
func CheckForUpdates(ctx context.Context, current Version, location, filename string) (*UpdateInfo, error) {
	return NewChecker().CheckForUpdates(ctx, current, location, filename)
}
