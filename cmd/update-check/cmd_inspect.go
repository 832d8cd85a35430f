package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GPUOpen-Tools/update-check-api/internal/exitcodes"
	ui "github.com/GPUOpen-Tools/update-check-api/internal/ui"
	"github.com/GPUOpen-Tools/update-check-api/internal/update"
)

// inspectOutput is the structured form of `inspect`.
type inspectOutput struct {
	File          string             `json:"file" yaml:"file"`
	SchemaVersion string             `json:"schema_version" yaml:"schema_version"`
	Info          *update.UpdateInfo `json:"update_info" yaml:"update_info"`
}

var inspectPlatform string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the releases in a version file",
	Long: `Parse a version file of any supported schema and print its releases in
the canonical form. Releases for every platform are shown unless
--platform is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(ui.NewPrinterFromGlobal(flagOutput), args[0], inspectPlatform)
	},
}

var convertOutFile string

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Rewrite a version file as schema " + update.CurrentSchemaVersion,
	Long: `Parse a version file of any supported schema and write it as a schema
` + update.CurrentSchemaVersion + ` document. Schema 1.3 and 1.5 files are upgraded the same way
a check upgrades them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(ui.NewPrinterFromGlobal(flagOutput), args[0], convertOutFile)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectPlatform, "platform", "", "Only show releases for this platform (Windows, Ubuntu, RHEL, Darwin)")
	convertCmd.Flags().StringVarP(&convertOutFile, "write", "w", "", "Write the converted file here instead of stdout")
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(convertCmd)
}

// loadManifest reads and parses path, reporting parse failures the same way
// a failed check does.
func loadManifest(p ui.Printer, path string) (*update.UpdateInfo, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", exitcodes.WrapError(exitcodes.InvalidArgs, "cannot read version file", err)
	}
	info, schema, err := update.ParseManifestSchema(data)
	if err != nil {
		reportFailure(&Deps{Printer: p, Errors: os.Stderr}, err)
		return nil, schema, silentErr{err}
	}
	return info, schema, nil
}

func runInspect(p ui.Printer, path, platform string) error {
	info, schema, err := loadManifest(p, path)
	if err != nil {
		return err
	}
	if platform != "" {
		var tp update.TargetPlatform
		if err := tp.UnmarshalText([]byte(platform)); err != nil || tp == update.PlatformUnknown {
			return exitcodes.InvalidArgsErrorf("unknown platform %q", platform)
		}
		update.FilterToPlatform(info, tp)
	}

	if p.Structured() {
		return p.Data(inspectOutput{File: path, SchemaVersion: schema, Info: info})
	}
	p.KeyValueLine("File", path, "")
	p.KeyValueLine("Schema", schema, "blue")
	p.KeyValueLine("Releases", fmt.Sprint(len(info.Releases)), "")
	view := ui.ReleaseView{Colors: p.Colors, Boxed: ui.IsTerminal(p.Out)}
	for i := range info.Releases {
		p.Textf("\n%s\n", view.RenderRelease(&info.Releases[i]))
	}
	return nil
}

func runConvert(p ui.Printer, path, outFile string) error {
	info, schema, err := loadManifest(p, path)
	if err != nil {
		return err
	}
	data, err := update.MarshalManifest(info)
	if err != nil {
		return exitcodes.WrapError(exitcodes.ValidationError, "cannot convert version file", err)
	}
	data = append(data, '\n')
	if outFile == "" {
		_, err := p.Out.Write(data)
		return err
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	p.Success(fmt.Sprintf("Converted %s (schema %s) to %s", path, schema, outFile))
	return nil
}
