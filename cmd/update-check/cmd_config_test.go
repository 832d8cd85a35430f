package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
)

func TestRunConfigInit(t *testing.T) {
	home := t.TempDir()
	cfg := config.Defaults()
	cfg.HomeDir = home
	path := cfg.Path()

	p, buf := bufPrinter(ui.FormatText)
	opts := configInitOptions{Location: "https://example.com/releases", Downloader: config.DownloaderHTTP}
	if err := runConfigInit(p, cfg, path, opts); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(buf.String(), path) {
		t.Errorf("output = %q", buf.String())
	}

	got, err := config.Load(config.WithHome(home))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Location != opts.Location || got.Downloader != config.DownloaderHTTP {
		t.Errorf("saved config = %+v", got)
	}

	if err := runConfigInit(p, cfg, path, configInitOptions{}); exitcodes.CodeForError(err) != exitcodes.PreconditionFailed {
		t.Errorf("second init error = %v, want a precondition failure", err)
	}
	if err := runConfigInit(p, cfg, path, configInitOptions{Overwrite: true}); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestRunConfigInit_InvalidDownloader(t *testing.T) {
	cfg := config.Defaults()
	cfg.HomeDir = t.TempDir()
	p, _ := bufPrinter(ui.FormatText)

	err := runConfigInit(p, cfg, filepath.Join(cfg.HomeDir, config.ConfigFileName), configInitOptions{Downloader: "ftp"})
	if exitcodes.CodeForError(err) != exitcodes.InvalidArgs {
		t.Errorf("error = %v, want invalid args", err)
	}
}

func TestRunConfigShow(t *testing.T) {
	cfg := config.Defaults()
	cfg.HomeDir = "/tmp/uc-home"

	t.Run("text", func(t *testing.T) {
		p, buf := bufPrinter(ui.FormatText)
		if err := runConfigShow(p, cfg); err != nil {
			t.Fatalf("runConfigShow() error = %v", err)
		}
		for _, want := range []string{"/tmp/uc-home", "versions.json", "10m0s"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("output missing %q:\n%s", want, buf.String())
			}
		}
	})

	t.Run("yaml", func(t *testing.T) {
		p, buf := bufPrinter(ui.FormatYAML)
		if err := runConfigShow(p, cfg); err != nil {
			t.Fatalf("runConfigShow() error = %v", err)
		}
		if !strings.Contains(buf.String(), "downloader: helper") {
			t.Errorf("yaml output = %s", buf.String())
		}
	})
}
