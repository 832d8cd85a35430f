// Command rtda downloads one file: rtda <url> <local_path>.
//
// update-check runs it as its download helper; a zero exit status means the
// file was written.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	"github.com/GPUOpen-Tools/update-check-api/internal/logging"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// Version is set via -ldflags during build.
var Version = "dev"

type downloadOptions struct {
	Timeout  time.Duration
	Progress bool
	Verbose  bool
}

func newRootCmd() *cobra.Command {
	var opts downloadOptions
	cmd := &cobra.Command{
		Use:           "rtda <url> <local_path>",
		Short:         "Download a file for update-check",
		Args:          cobra.ExactArgs(2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			if err := logging.Init(level, logging.Console); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDownload(ctx, opts, args[0], args[1], os.Stderr)
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "Give up after this long (0 = no limit)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", true, "Show a progress bar when stderr is a terminal")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log request details")
	return cmd
}

func runDownload(ctx context.Context, opts downloadOptions, url, localPath string, stderr io.Writer) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	f := update.NewHTTPFetcher()
	f.UserAgent = "rtda/" + Version
	var bar *ui.ProgressBar
	if opts.Progress && ui.IsTerminal(stderr) {
		bar = ui.NewProgressBar(stderr, 0)
		bar.SetLabel("Downloading")
		f.Progress = bar.Callback()
	}

	logger := log.WithFields(log.Fields{"url": url, "dest": localPath})
	logger.Debug("downloading")
	start := time.Now()
	if err := f.Fetch(ctx, url, localPath); err != nil {
		if ctx.Err() != nil {
			return exitcodes.WrapError(exitcodes.Cancelled, "download cancelled", ctx.Err())
		}
		return exitcodes.WrapError(exitcodes.NetworkError, "download failed", err)
	}
	if bar != nil {
		bar.Finish()
	}
	logger.WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("download complete")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rtda:", err)
		exitcodes.Exit(exitcodes.CodeForError(err))
	}
}
