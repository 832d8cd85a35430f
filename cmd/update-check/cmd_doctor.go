package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	"github.com/GPUOpen-Tools/update-check-api/internal/files"
	"github.com/GPUOpen-Tools/update-check-api/internal/metrics"
	"github.com/GPUOpen-Tools/update-check-api/internal/process"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "fail"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the update check setup",
	Long: `Runs the checks an update check depends on:
- Configuration file
- Platform detection
- Temp directory for downloads
- Download helper
- The configured location, by running a check against it`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadCfg()
		if err != nil {
			return err
		}
		return runDoctor(cmd.Context(), newDeps(cfg))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type checkResult struct {
	Name    string   `json:"name" yaml:"name"`
	Status  string   `json:"status" yaml:"status"`
	Message string   `json:"message" yaml:"message"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

type doctorOutput struct {
	Checks []checkResult    `json:"checks" yaml:"checks"`
	System metrics.Snapshot `json:"system" yaml:"system"`
}

func runDoctor(ctx context.Context, d *Deps) error {
	tmp, tmpErr := files.TempDir()
	snap := metrics.Collect(ctx, tmp)

	results := []checkResult{
		checkConfigFile(d.Cfg),
		checkPlatform(d.Checker.Platform(), snap),
		checkTempDir(tmp, tmpErr, snap),
		checkDownloader(d.Cfg),
		checkLocation(ctx, d),
	}

	failed := 0
	warned := 0
	for _, r := range results {
		switch r.Status {
		case statusFail:
			failed++
		case statusWarn:
			warned++
		}
	}

	if d.Printer.Structured() {
		if err := d.Printer.Data(doctorOutput{Checks: results, System: snap}); err != nil {
			return err
		}
	} else {
		c := d.Printer.Colors
		d.Printer.Textf("%s\n\n", c.Header(" UPDATE CHECK DIAGNOSTICS "))
		for _, r := range results {
			printCheck(d.Printer, r)
		}
		d.Printer.Textf("\n%s\n", c.Separator(60))
		summary := fmt.Sprintf("Checks: %d passed, %d warnings, %d failed", len(results)-failed-warned, warned, failed)
		switch {
		case failed > 0:
			d.Printer.Textf("%s\n", c.Error("✗ "+summary))
		case warned > 0:
			d.Printer.Textf("%s\n", c.Warning("⚠ "+summary))
		default:
			d.Printer.Textf("%s\n", c.Success("✓ "+summary))
		}
	}

	if failed > 0 {
		return silentErr{exitcodes.ValidationErrf("%d diagnostic check(s) failed", failed)}
	}
	return nil
}

func checkConfigFile(cfg config.Config) checkResult {
	result := checkResult{Name: "Configuration"}
	path := cfg.Path()
	_, err := os.Stat(path)
	switch {
	case err == nil:
		result.Status = statusPass
		result.Message = "Using " + path
	case errors.Is(err, fs.ErrNotExist):
		result.Status = statusWarn
		result.Message = "No config file; using defaults"
		result.Details = []string{"Create one with: update-check config init --location <url>"}
	default:
		result.Status = statusFail
		result.Message = "Cannot read " + path
		result.Details = []string{err.Error()}
	}
	return result
}

func checkPlatform(p update.TargetPlatform, snap metrics.Snapshot) checkResult {
	result := checkResult{Name: "Platform"}
	host := strings.TrimSpace(strings.Join([]string{snap.Host.Platform, snap.Host.PlatformVersion, snap.Host.KernelArch}, " "))
	if p == update.PlatformUnknown {
		result.Status = statusWarn
		result.Message = "Platform not recognised; releases are not filtered"
	} else {
		result.Status = statusPass
		result.Message = "Releases are filtered to " + p.String()
	}
	if host != "" {
		result.Details = []string{"Host: " + host}
	}
	return result
}

func checkTempDir(dir string, err error, snap metrics.Snapshot) checkResult {
	result := checkResult{Name: "Temp Directory"}
	if err != nil {
		result.Status = statusFail
		result.Message = update.MsgUnableToFindTempDirectory
		result.Details = []string{err.Error(), "Set TMPDIR to a writable directory"}
		return result
	}
	result.Status = statusPass
	result.Message = "Downloads go to " + dir
	if snap.Disk.Total > 0 {
		result.Details = []string{fmt.Sprintf("%s free of %s", ui.FormatBytes(int64(snap.Disk.Free)), ui.FormatBytes(int64(snap.Disk.Total)))}
	}
	return result
}

func checkDownloader(cfg config.Config) checkResult {
	result := checkResult{Name: "Downloader"}
	if cfg.Downloader == config.DownloaderHTTP {
		result.Status = statusPass
		result.Message = "Built-in HTTP downloader"
		return result
	}
	path := cfg.HelperPath
	if path == "" {
		path = process.DefaultHelperPath()
	}
	fi, err := os.Stat(path)
	switch {
	case err != nil:
		result.Status = statusFail
		result.Message = "Download helper not found at " + path
		result.Details = []string{
			"Install " + process.HelperName + " next to update-check",
			"Or set helper-path, or downloader: http, in the config file",
		}
	case fi.IsDir():
		result.Status = statusFail
		result.Message = path + " is a directory"
	default:
		result.Status = statusPass
		result.Message = "Download helper at " + path
	}
	return result
}

func checkLocation(ctx context.Context, d *Deps) checkResult {
	result := checkResult{Name: "Location"}
	if d.Cfg.Location == "" {
		result.Status = statusWarn
		result.Message = "No default location; pass --location to check"
		return result
	}
	timeout := d.Cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	info, err := d.Checker.CheckForUpdates(ctx, update.Version{}, d.Cfg.Location, d.Cfg.Filename)
	if err != nil {
		result.Status = statusFail
		result.Message = "Cannot check " + d.Cfg.Location
		if msgs := update.Messages(err); len(msgs) > 0 {
			result.Details = trimMessages(msgs)
		} else {
			result.Details = []string{err.Error()}
		}
		return result
	}
	result.Status = statusPass
	result.Message = fmt.Sprintf("%s lists %d release(s) for this platform", d.Cfg.Location, len(info.Releases))
	return result
}

func trimMessages(msgs []string) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func printCheck(p ui.Printer, r checkResult) {
	c := p.Colors
	var icon, msg string
	switch r.Status {
	case statusPass:
		icon, msg = c.Success("✓"), c.Success(r.Message)
	case statusWarn:
		icon, msg = c.Warning("⚠"), c.Warning(r.Message)
	default:
		icon, msg = c.Error("✗"), c.Error(r.Message)
	}
	p.Textf("%s %s: %s\n", icon, c.Label(r.Name), msg)
	for _, detail := range r.Details {
		p.Textf("  %s %s\n", c.Description("→"), detail)
	}
}
