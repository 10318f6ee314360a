package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/shapestone/shape-jyaml/internal/logger"
	"github.com/shapestone/shape-jyaml/pkg/jyaml"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Document formats understood by convert.
const (
	formatJYAML = "jyaml"
	formatJSON  = "json"
	formatJSONC = "jsonc"
	formatYAML  = "yaml"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert between JYAML, JSON and YAML",
		Long: `Convert one document between formats.

Input formats:
  jyaml   JYAML (default for .jyaml and unknown extensions)
  json    strict JSON
  jsonc   JSON with // and /* */ comments and trailing commas
  yaml    YAML 1.2, single document

Output formats:
  jyaml   JYAML, shaped by the output flags
  json    JSON; --indent > 0 pretty prints it
  yaml    YAML

Object key order is kept in every direction.

Examples:
  # YAML to JYAML in block style
  jyaml convert --from yaml --to jyaml --preset block deploy.yaml

  # Commented JSON to plain JSON
  jyaml convert tsconfig.jsonc --to json -o tsconfig.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConvert,
	}
	cmd.Flags().String("from", "", "Input format: jyaml, json, jsonc, yaml (default: from the file extension)")
	cmd.Flags().String("to", formatJSON, "Output format: jyaml, json, yaml")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	addSerializeFlags(cmd)
	addParseFlags(cmd)
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	output, _ := cmd.Flags().GetString("output")

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

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	if from == "" {
		from = formatFromExtension(path)
	}

	data, err := readFile(path, cmd.InOrStdin(), v.GetBool(keyTranscode))
	if err != nil {
		return fmt.Errorf("error reading %s: %w", displayName(path), err)
	}

	val, err := decodeAs(from, data, popts)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(path), err)
	}

	out, err := encodeAs(to, val, sopts, v.GetInt(keyIndent))
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", output, err)
	}
	logger.Debug("wrote %s", output)
	return nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".jsonc":
		return formatJSONC
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJYAML
}

// decodeAs parses data in the given format. JSON is a subset of JYAML, so
// JSON input is checked with encoding/json and then parsed by the JYAML
// parser, which keeps key order.
func decodeAs(format string, data []byte, opts jyaml.ParseOptions) (value.Value, error) {
	switch format {
	case formatJYAML:
		return jyaml.ParseWithOptions(string(data), opts)
	case formatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	case formatJSON:
		if !json.Valid(data) {
			var decoded any
			err := json.Unmarshal(data, &decoded)
			return value.Value{}, fmt.Errorf("invalid JSON: %w", err)
		}
		return jyaml.ParseWithOptions(string(data), opts)
	case formatYAML:
		return jyaml.FromYAML(data)
	}
	return value.Value{}, fmt.Errorf("unknown input format %q (available: jyaml, json, jsonc, yaml)", format)
}

// encodeAs renders val in the given format, ending with a line break.
func encodeAs(format string, val value.Value, opts jyaml.SerializeOptions, jsonIndent int) ([]byte, error) {
	switch format {
	case formatJYAML:
		text, err := jyaml.SerializeWithOptions(val, opts)
		if err != nil {
			return nil, err
		}
		return []byte(text + finalBreak(opts)), nil
	case formatJSON:
		text, err := jyaml.SerializeWithOptions(val, jyaml.JSONCompatibleSerializeOptions())
		if err != nil {
			return nil, err
		}
		if jsonIndent <= 0 {
			return []byte(text + "\n"), nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(text), "", strings.Repeat(" ", jsonIndent)); err != nil {
			return nil, fmt.Errorf("error indenting JSON: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case formatYAML:
		return jyaml.ToYAML(val)
	}
	return nil, fmt.Errorf("unknown output format %q (available: jyaml, json, yaml)", format)
}
