package main

import (
	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
)

type configInitOptions struct {
	Location   string
	Filename   string
	Downloader string
	Overwrite  bool
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the update-check config file",
	}

	var initOpts configInitOptions
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			path := cfg.Path()
			if flagConfigFile != "" {
				path = flagConfigFile
			}
			return runConfigInit(ui.NewPrinterFromGlobal(flagOutput), cfg, path, initOpts)
		},
	}
	initCmd.Flags().StringVar(&initOpts.Location, "location", "", "Default location to check")
	initCmd.Flags().StringVar(&initOpts.Filename, "file", "", "Default version file name")
	initCmd.Flags().StringVar(&initOpts.Downloader, "downloader", "", "How to download: helper or http")
	initCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "Replace an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCfg()
			if err != nil {
				return err
			}
			return runConfigShow(ui.NewPrinterFromGlobal(flagOutput), cfg)
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}

func runConfigInit(p ui.Printer, cfg config.Config, path string, opts configInitOptions) error {
	if opts.Location != "" {
		cfg.Location = opts.Location
	}
	if opts.Filename != "" {
		cfg.Filename = opts.Filename
	}
	if opts.Downloader != "" {
		cfg.Downloader = opts.Downloader
	}
	if err := cfg.Validate(); err != nil {
		return exitcodes.InvalidArgsError(err.Error())
	}
	if err := config.Save(cfg, path, opts.Overwrite); err != nil {
		return exitcodes.WrapError(exitcodes.PreconditionFailed, "cannot write config", err)
	}
	p.Success("Wrote " + path)
	return nil
}

// configView is the printable form of a Config.
type configView struct {
	Home       string `json:"home" yaml:"home"`
	Location   string `json:"location" yaml:"location"`
	Filename   string `json:"filename" yaml:"filename"`
	Downloader string `json:"downloader" yaml:"downloader"`
	HelperPath string `json:"helper_path,omitempty" yaml:"helper_path,omitempty"`
	CacheTTL   string `json:"cache_ttl" yaml:"cache_ttl"`
	Timeout    string `json:"timeout" yaml:"timeout"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	LogFile    string `json:"log_file" yaml:"log_file"`
}

func runConfigShow(p ui.Printer, cfg config.Config) error {
	v := configView{
		Home:       cfg.HomeDir,
		Location:   cfg.Location,
		Filename:   cfg.Filename,
		Downloader: cfg.Downloader,
		HelperPath: cfg.HelperPath,
		CacheTTL:   cfg.CacheTTL.String(),
		Timeout:    cfg.Timeout.String(),
		LogLevel:   cfg.LogLevel,
		LogFile:    cfg.LogFile,
	}
	if p.Structured() {
		return p.Data(v)
	}
	p.KeyValueLine("Home", v.Home, "")
	p.KeyValueLine("Location", orDash(v.Location), "blue")
	p.KeyValueLine("File", v.Filename, "")
	p.KeyValueLine("Downloader", v.Downloader, "")
	if v.HelperPath != "" {
		p.KeyValueLine("Helper", v.HelperPath, "")
	}
	p.KeyValueLine("Cache TTL", v.CacheTTL, "dim")
	p.KeyValueLine("Timeout", v.Timeout, "dim")
	p.KeyValueLine("Log", v.LogLevel+" → "+v.LogFile, "dim")
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
