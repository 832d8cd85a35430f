package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
	"github.com/GPUOpen-Tools/update-check-api/internal/worker"
)

type checkOptions struct {
	CurrentVersion string
	Location       string
	Filename       string
	Force          bool
	Interactive    bool
	Strict         bool
}

// checkOutput is the structured form of a check for --output json|yaml.
type checkOutput struct {
	Result          *update.CheckResult `json:"result" yaml:"result"`
	UpdateAvailable bool                `json:"update_available" yaml:"update_available"`
	LatestVersion   string              `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	Cached          bool                `json:"cached" yaml:"cached"`
}

// failureOutput is the structured form of a failed check.
type failureOutput struct {
	Error    string   `json:"error" yaml:"error"`
	Kind     string   `json:"kind" yaml:"kind"`
	Messages []string `json:"messages" yaml:"messages"`
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check for newer releases",
		Long: `Load the version file from --location and report the releases for this
platform, marking whether any is newer than --current-version.

The location may be a local directory, an http(s) URL or a GitHub
".../releases/latest" API URL. Set RDTS_UPDATER_ASSUME_VERSION to compare
against a different version.`,
		Example: `  update-check check --current-version 2.1 --location https://api.github.com/repos/acme/tool/releases/latest
  update-check check --current-version 2.1.0.17 --location /srv/releases --file tool.json --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runCheck(ctx, newDeps(cfg), opts)
		},
	}
	cmd.Flags().StringVar(&opts.CurrentVersion, "current-version", "", "Version of the installed product (1-4 components, e.g. 2.1 or 2.1.0.17)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "Directory, URL or GitHub releases/latest URL holding the version file (overrides config)")
	cmd.Flags().StringVar(&opts.Filename, "file", "", "Version file name (overrides config)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Ignore a cached result")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Show progress and allow cancelling or retrying the check")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit with code 10 when an update is available")
	_ = cmd.MarkFlagRequired("current-version")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func runCheck(ctx context.Context, d *Deps, opts checkOptions) error {
	current, err := update.ParseProductVersion(opts.CurrentVersion)
	if err != nil {
		return exitcodes.InvalidArgsErrorf("--current-version: %v", err)
	}
	location := firstNonEmpty(opts.Location, d.Cfg.Location)
	if location == "" {
		return exitcodes.PreconditionError("no location to check: pass --location or set location in the config file")
	}
	filename := firstNonEmpty(opts.Filename, d.Cfg.Filename)

	if d.Cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Cfg.Timeout)
		defer cancel()
	}

	key := update.CacheKey(location, filename, current, d.Checker.ReferenceVersion(current), d.Checker.Platform())
	var (
		res    *update.CheckResult
		cached bool
	)
	if !opts.Force && d.Cfg.CacheTTL > 0 {
		res, cached = update.CachedCheck(d.Cfg.HomeDir, key, d.Cfg.CacheTTL)
	}
	if !cached {
		if opts.Interactive {
			res, err = checkInteractive(ctx, d, current, location, filename)
		} else {
			res, err = d.Checker.Check(ctx, current, location, filename)
		}
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = exitcodes.WrapError(exitcodes.NetworkError, "update check timed out", err)
			}
			reportFailure(d, err)
			return silentErr{err}
		}
		saveResult(d, key, res)
	}

	if err := renderResult(d, res, cached); err != nil {
		return err
	}
	if opts.Strict && res.Info.IsUpdateAvailable {
		return silentErr{exitcodes.UpdateAvailableErr(latestVersion(res.Info).String())}
	}
	return nil
}

func checkInteractive(ctx context.Context, d *Deps, current update.Version, location, filename string) (*update.CheckResult, error) {
	if !ui.IsTerminal(os.Stderr) {
		return nil, exitcodes.InvalidArgsError("--interactive needs a terminal")
	}
	w := worker.New(d.Checker, current, location, filename)
	ev, err := ui.RunCheckTUI(ctx, w, location)
	if err != nil {
		return nil, err
	}
	if ev.Kind == worker.Cancelled {
		return nil, context.Canceled
	}
	if !ev.Results.Successful {
		return nil, ev.Results.Err
	}
	return d.Checker.Result(current, location, filename, ev.Results.Info), nil
}

func saveResult(d *Deps, key string, res *update.CheckResult) {
	if d.Cfg.CacheTTL <= 0 || d.Cfg.HomeDir == "" {
		return
	}
	if err := os.MkdirAll(d.Cfg.HomeDir, 0o755); err != nil {
		log.WithError(err).Debug("cannot create home directory for the result cache")
		return
	}
	entry := &update.CacheEntry{Key: key, CheckedAt: time.Now(), Result: res}
	if err := update.SaveCache(d.Cfg.HomeDir, entry); err != nil {
		log.WithError(err).Debug("cannot write result cache")
	}
}

func renderResult(d *Deps, res *update.CheckResult, cached bool) error {
	if d.Printer.Structured() {
		out := checkOutput{Result: res, UpdateAvailable: res.Info.IsUpdateAvailable, Cached: cached}
		if res.Info.IsUpdateAvailable {
			out.LatestVersion = latestVersion(res.Info).String()
		}
		return d.Printer.Data(out)
	}

	ref, _ := update.ParseVersion(res.ComparedVersion)
	view := ui.ReleaseView{Colors: d.Printer.Colors, Reference: ref, Boxed: ui.IsTerminal(d.Output)}
	d.Printer.Textf("%s", view.RenderUpdateInfo(res.Info))
	if cached && ui.GetGlobal().Verbose {
		d.Printer.Info("Result from cache; use --force to check again.")
	}
	return nil
}

func reportFailure(d *Deps, err error) {
	if errors.Is(err, context.Canceled) {
		d.Printer.Warn("Update check cancelled.")
		return
	}
	if d.Printer.Structured() {
		out := failureOutput{Error: err.Error(), Kind: "internal", Messages: update.Messages(err)}
		var ce *update.CheckError
		if errors.As(err, &ce) {
			out.Kind = ce.Kind.String()
		}
		_ = d.Printer.Data(out)
		return
	}
	ui.PrintError(d.Errors, ui.ErrorFor(err))
}

// latestVersion is the highest release version in info.
func latestVersion(info *update.UpdateInfo) update.Version {
	var latest update.Version
	for _, r := range info.Releases {
		if r.Version.Compare(latest) == update.Newer {
			latest = r.Version
		}
	}
	return latest
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
