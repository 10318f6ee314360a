package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-jyaml/pkg/jyaml"
)

// Version information, set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// versionString returns Version, or the module version recorded in the
// build info for `go install`ed binaries.
func versionString() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}
	return Version
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, jyaml)")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}

	out := cmd.OutOrStdout()
	info := jyaml.NewObject().
		Set("version", versionString()).
		Set("gitCommit", GitCommit).
		Set("buildTime", BuildTime)

	switch format {
	case "text":
		fmt.Fprintf(out, "jyaml %s\n", versionString())
		return nil
	case "json":
		text, err := jyaml.SerializeWithOptions(info.Build(), jyaml.JSONCompatibleSerializeOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	case "jyaml":
		text, err := jyaml.SerializeWithOptions(info.Build(), jyaml.BlockSerializeOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}
	return fmt.Errorf("unknown format %q (available: text, json, jyaml)", format)
}
