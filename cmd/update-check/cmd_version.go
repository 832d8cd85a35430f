package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// versionInfo is printed by `version`.
type versionInfo struct {
	Version    string `json:"version" yaml:"version"`
	Commit     string `json:"commit" yaml:"commit"`
	BuildDate  string `json:"build_date" yaml:"build_date"`
	APIVersion string `json:"api_version" yaml:"api_version"`
	Schema     string `json:"schema_version" yaml:"schema_version"`
}

func currentVersionInfo() versionInfo {
	v := Version
	// Release builds are tagged vX.Y.Z; show the canonical form.
	if c := semver.Canonical("v" + strings.TrimPrefix(v, "v")); c != "" {
		v = c
	}
	return versionInfo{
		Version:    v,
		Commit:     Commit,
		BuildDate:  BuildDate,
		APIVersion: update.APIVersion().String(),
		Schema:     update.CurrentSchemaVersion,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinterFromGlobal(flagOutput)
		info := currentVersionInfo()
		if p.Structured() {
			return p.Data(info)
		}
		p.Textf("update-check %s (%s) built %s\n", info.Version, info.Commit, info.BuildDate)
		p.Textf("update check API %s, version file schema %s\n", info.APIVersion, info.Schema)
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
