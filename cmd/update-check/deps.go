package main

import (
	"io"
	"os"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	"github.com/GPUOpen-Tools/update-check-api/internal/process"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// Deps holds all injectable dependencies for command handlers.
type Deps struct {
	Cfg     config.Config
	Checker *update.Checker
	Printer ui.Printer
	Output  io.Writer // data and results
	Errors  io.Writer // failure reports in text mode
}

// newDeps builds production dependencies from cfg.
func newDeps(cfg config.Config) *Deps {
	p := ui.NewPrinterFromGlobal(flagOutput)
	return &Deps{
		Cfg:     cfg,
		Checker: update.NewChecker(update.WithFetcher(fetcherFor(cfg))),
		Printer: p,
		Output:  p.Out,
		Errors:  os.Stderr,
	}
}

// fetcherFor selects how version files are downloaded.
func fetcherFor(cfg config.Config) update.Fetcher {
	if cfg.Downloader == config.DownloaderHTTP {
		f := update.NewHTTPFetcher()
		f.UserAgent = "update-check/" + Version
		return f
	}
	return process.NewHelperFetcher(cfg.HelperPath)
}
