package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/config"
	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	"github.com/GPUOpen-Tools/update-check-api/internal/logging"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// silentErr has already been reported to the user; Execute only sets the
// exit code.
type silentErr struct{ error }

func (e silentErr) Unwrap() error { return e.error }

// rootCmd wires the CLI surface using Cobra. Persistent flags are applied
// to the loaded config in loadCfg().
var rootCmd = &cobra.Command{
	Use:           "update-check",
	Short:         "Check for product updates",
	Long:          "Check a version manifest (local file, web server or GitHub release) for newer releases of a product.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.InitGlobal(ui.Config{
			NoColor: flagNoColor,
			NoEmoji: flagNoEmoji,
			Verbose: flagVerbose,
			Quiet:   flagQuiet,
			Debug:   flagDebug,
		})

		// Set NO_COLOR env so lipgloss and other libraries respect the flag
		if flagNoColor {
			os.Setenv("NO_COLOR", "1")
		}

		if !ui.ValidFormat(flagOutput) {
			return exitcodes.InvalidArgsErrorf("invalid --output %q (want json, yaml or text)", flagOutput)
		}
		return initLogging()
	},
}

var (
	flagHome       string
	flagConfigFile string
	flagOutput     string
	flagLogFile    string
	flagVerbose    bool
	flagQuiet      bool
	flagDebug      bool
	flagNoColor    bool
	flagNoEmoji    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "Home directory for config and cache (overrides env)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "Config file (default <home>/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: json|yaml|text")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Quiet mode: minimal output")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Debug output: extra diagnostic logs")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVar(&flagNoEmoji, "no-emoji", false, "Disable emoji output")

	// Only the root command gets the grouped help; subcommands use cobra's.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			defaultHelp(cmd, args)
			return
		}
		// Help runs before PersistentPreRun, so manually configure colors
		c := ui.NewColorConfig()
		c.Enabled = c.Enabled && !flagNoColor
		c.EmojiEnabled = c.EmojiEnabled && !flagNoEmoji
		w := cmd.OutOrStdout()

		const cmdWidth = 28

		fmt.Fprintln(w, c.Header(" Update Check "))
		fmt.Fprintln(w, c.Description(rootCmd.Long))
		fmt.Fprintln(w, c.Separator(50))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("USAGE"))
		fmt.Fprintf(w, "  %s <command> [flags]\n", "update-check")
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("Checking"))
		fmt.Fprintln(w, c.FormatCommandAligned("check", "Check for newer releases", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("check --interactive", "Check with a cancellable progress view", cmdWidth))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("Manifests"))
		fmt.Fprintln(w, c.FormatCommandAligned("inspect <file>", "Show the releases in a version file", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("convert <file>", "Rewrite a version file as schema "+update.CurrentSchemaVersion, cmdWidth))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("Setup"))
		fmt.Fprintln(w, c.FormatCommandAligned("config init", "Write a default config file", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("config show", "Show the effective configuration", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("doctor", "Diagnose the update check setup", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("version", "Show version", cmdWidth))
		fmt.Fprintln(w, c.FormatCommandAligned("completion <shell>", "Generate shell completion", cmdWidth))
		fmt.Fprintln(w)

		fmt.Fprintln(w, c.SubHeader("Flags"))
		fmt.Fprint(w, rootCmd.PersistentFlags().FlagUsages())
	})
}

// Execute runs the root command and exits with the code for its error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var se silentErr
		if !errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitcodes.CodeForError(err))
	}
}

// loadCfg reads defaults, the config file and env via internal/config and
// then applies overrides from persistent flags.
func loadCfg() (config.Config, error) {
	var opts []config.Option
	if flagHome != "" {
		opts = append(opts, config.WithHome(flagHome))
	}
	if flagConfigFile != "" {
		opts = append(opts, config.WithConfigFile(flagConfigFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return cfg, exitcodes.WrapError(exitcodes.PreconditionFailed, "invalid configuration", err)
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func initLogging() error {
	cfg, err := loadCfg()
	if err != nil {
		// Still log somewhere useful; the command reports the config error.
		_ = logging.Init("info", flagLogFile)
		return nil
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return exitcodes.WrapError(exitcodes.PreconditionFailed, "invalid log level", err)
	}
	log.WithFields(log.Fields{"version": Version, "home": cfg.HomeDir}).Debug("update-check starting")
	return nil
}
