// Package cli provides the commands of the jyaml tool.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-jyaml/internal/logger"
)

// NewRootCmd builds the jyaml command tree. Each call returns fresh commands
// with their own flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jyaml",
		Short: "Format, validate and convert JYAML documents",
		Long: `jyaml works with JYAML documents: a JSON superset with YAML-style block
objects and arrays, block scalars and '#' comments.

Options are read from flags, JYAML_* environment variables and an optional
.jyaml.yaml file in the working or home directory, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if quiet {
				logger.SetOutput(io.Discard)
			} else {
				logger.SetOutput(cmd.ErrOrStderr())
			}
			logger.SetVerbose(verbose && !quiet)
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "Config file (default: .jyaml.yaml in . or $HOME)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log per-file progress")
	root.PersistentFlags().BoolP("quiet", "q", false, "Only output errors")
	root.PersistentFlags().Bool("transcode", false, "Decode UTF-16 and strip byte order marks before parsing")

	root.AddCommand(newFmtCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the jyaml command with the process arguments.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		root.PrintErrln("Error:", err)
	}
	return err
}
