package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shapestone/shape-jyaml/internal/logger"
	"github.com/shapestone/shape-jyaml/pkg/jyaml"
)

// Config keys. Each matches a flag name, an environment variable
// (JYAML_ plus the key upper-cased with '-' as '_') and a key in .jyaml.yaml.
const (
	keyPreset        = "preset"
	keyStyle         = "style"
	keyIndent        = "indent"
	keyQuoteStyle    = "quote-style"
	keySortKeys      = "sort-keys"
	keyEscapeUnicode = "escape-unicode"
	keyLineEnding    = "line-ending"
	keyPermissive    = "permissive"
	keyMaxDepth      = "max-depth"
	keyWorkers       = "workers"
	keyTranscode     = "transcode"
)

// loadConfig merges the command's flags with the environment and the config
// file. A missing default config file is not an error; a missing --config
// file is.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("JYAML")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".jyaml")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		logger.Debug("using config %s", v.ConfigFileUsed())
	}
	return v, nil
}

// parseOptions resolves parse options: the strict preset, or permissive when
// requested, with an optional depth override.
func parseOptions(v *viper.Viper) (jyaml.ParseOptions, error) {
	opts := jyaml.StrictParseOptions()
	if v.GetBool(keyPermissive) {
		opts = jyaml.PermissiveParseOptions()
	}
	if v.IsSet(keyMaxDepth) {
		opts.MaxDepth = v.GetInt(keyMaxDepth)
	}
	if err := opts.Validate(); err != nil {
		return jyaml.ParseOptions{}, err
	}
	return opts, nil
}

// serializeOptions resolves serialization options: a preset, then any
// individually set option on top of it.
func serializeOptions(v *viper.Viper, defaultPreset string) (jyaml.SerializeOptions, error) {
	preset := v.GetString(keyPreset)
	if preset == "" {
		preset = defaultPreset
	}
	b, err := jyaml.SerializeOptionsBuilderFromPreset(preset)
	if err != nil {
		return jyaml.SerializeOptions{}, err
	}

	if v.IsSet(keyStyle) {
		style, err := jyaml.ParseOutputStyle(v.GetString(keyStyle))
		if err != nil {
			return jyaml.SerializeOptions{}, err
		}
		b.Style(style)
	}
	if v.IsSet(keyQuoteStyle) {
		q, err := jyaml.ParseQuoteStyle(v.GetString(keyQuoteStyle))
		if err != nil {
			return jyaml.SerializeOptions{}, err
		}
		b.QuoteStyle(q)
	}
	if v.IsSet(keyLineEnding) {
		le, err := jyaml.ParseLineEnding(v.GetString(keyLineEnding))
		if err != nil {
			return jyaml.SerializeOptions{}, err
		}
		b.LineEnding(le)
	}
	if v.IsSet(keyIndent) {
		b.Indent(v.GetInt(keyIndent))
	}
	if v.IsSet(keySortKeys) {
		b.SortKeys(v.GetBool(keySortKeys))
	}
	if v.IsSet(keyEscapeUnicode) {
		b.EscapeUnicode(v.GetBool(keyEscapeUnicode))
	}
	return b.TryBuild()
}

// addSerializeFlags registers the output flags shared by fmt and convert.
func addSerializeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(keyPreset, "p", "", "Output preset: compact, pretty, block, json_compatible, debug")
	cmd.Flags().String(keyStyle, "", "Collection style: flow, block, auto")
	cmd.Flags().Int(keyIndent, 2, "Spaces per nesting level (0-8)")
	cmd.Flags().String(keyQuoteStyle, "", "String quotes: double, single, auto")
	cmd.Flags().Bool(keySortKeys, false, "Write object keys in sorted order")
	cmd.Flags().Bool(keyEscapeUnicode, false, "Escape every non-ASCII character")
	cmd.Flags().String(keyLineEnding, "", "Line breaks: none, lf, crlf")
}

// addParseFlags registers the input flags shared by every command that parses.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(keyPermissive, false, "Allow duplicate keys and empty values")
	cmd.Flags().Int(keyMaxDepth, jyaml.DefaultMaxDepth, "Maximum nesting depth")
}
