package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapestone/shape-jyaml/internal/logger"
	"github.com/shapestone/shape-jyaml/pkg/jyaml"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Reformat JYAML documents",
		Long: `Parse JYAML documents and write them back in a canonical layout.

With no files, or "-", the document is read from stdin. Comments are not
kept; a warning names each file that loses them.

Examples:
  # Print a block-style rendering
  jyaml fmt --preset block config.jyaml

  # Rewrite every document in a tree in place
  jyaml fmt -w "conf/**/*.jyaml"

  # Exit non-zero when any file is not formatted
  jyaml fmt --check "conf/**/*.jyaml"`,
		Args: cobra.ArbitraryArgs,
		RunE: runFmt,
	}
	cmd.Flags().BoolP("write", "w", false, "Write the result to each file instead of stdout")
	cmd.Flags().Bool("check", false, "List files whose formatting differs and fail if any do")
	addSerializeFlags(cmd)
	addParseFlags(cmd)
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	check, _ := cmd.Flags().GetBool("check")

	v, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	popts, err := parseOptions(v)
	if err != nil {
		return err
	}
	sopts, err := serializeOptions(v, "pretty")
	if err != nil {
		return err
	}
	transcode := v.GetBool(keyTranscode)

	files := []string{"-"}
	if len(args) > 0 {
		if files, err = expandFiles(args, nil); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	unformatted := 0
	for _, path := range files {
		src, err := readFile(path, cmd.InOrStdin(), transcode)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", path, err)
		}
		formatted, comments, err := formatDocument(src, popts, sopts)
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(path), err)
		}
		if comments > 0 && (write || path == "-") {
			logger.Warn("%s: %d comments dropped", displayName(path), comments)
		}

		switch {
		case check:
			if string(src) != string(formatted) {
				unformatted++
				fmt.Fprintln(out, displayName(path))
			}
		case write && path != "-":
			changed, err := writeFileIfChanged(path, formatted)
			if err != nil {
				return fmt.Errorf("error writing %s: %w", path, err)
			}
			if changed {
				logger.Debug("formatted %s", path)
			}
		default:
			if _, err := out.Write(formatted); err != nil {
				return err
			}
		}
	}

	if unformatted > 0 {
		return fmt.Errorf("%d of %d files are not formatted", unformatted, len(files))
	}
	return nil
}

// formatDocument re-serializes src. The result ends with a line break; the
// count of comments that the rendering drops is returned alongside.
func formatDocument(src []byte, popts jyaml.ParseOptions, sopts jyaml.SerializeOptions) ([]byte, int, error) {
	popts.PreserveComments = true
	popts.IncludeCommentPositions = false
	doc, err := jyaml.ParseDocumentWithOptions(string(src), popts)
	if err != nil {
		return nil, 0, err
	}
	text, err := jyaml.SerializeWithOptions(doc.Value, sopts)
	if err != nil {
		return nil, 0, err
	}
	return []byte(text + finalBreak(sopts)), len(doc.Comments), nil
}

// finalBreak is the line break written after a serialized document.
func finalBreak(opts jyaml.SerializeOptions) string {
	if opts.LineEnding == jyaml.LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
