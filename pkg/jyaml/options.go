package jyaml

import (
	"strings"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/internal/parser"
)

// Limits for option values.
const (
	DefaultMaxDepth = 1000
	MaxMaxDepth     = 100000
	MaxIndent       = 8
)

// OutputStyle selects how collections are written.
type OutputStyle int

const (
	// StyleAuto writes small scalar-only collections in flow style and the
	// rest in block style when pretty printing, flow otherwise.
	StyleAuto OutputStyle = iota
	// StyleFlow writes JSON-like {...} and [...].
	StyleFlow
	// StyleBlock writes YAML-like indented entries.
	StyleBlock
)

// QuoteStyle selects the string delimiter.
type QuoteStyle int

const (
	// QuoteDouble always writes double-quoted strings.
	QuoteDouble QuoteStyle = iota
	// QuoteSingle writes single-quoted strings where the content allows it.
	QuoteSingle
	// QuoteAuto writes single quotes only when that avoids escaping a '"'.
	QuoteAuto
)

// LineEnding selects line break handling.
type LineEnding int

const (
	// LineEndingNone leaves decoded strings alone and writes "\n".
	LineEndingNone LineEnding = iota
	// LineEndingLF uses "\n".
	LineEndingLF
	// LineEndingCRLF uses "\r\n".
	LineEndingCRLF
)

func (s OutputStyle) String() string {
	switch s {
	case StyleFlow:
		return "flow"
	case StyleBlock:
		return "block"
	}
	return "auto"
}

func (q QuoteStyle) String() string {
	switch q {
	case QuoteSingle:
		return "single"
	case QuoteAuto:
		return "auto"
	}
	return "double"
}

func (e LineEnding) String() string {
	switch e {
	case LineEndingLF:
		return "lf"
	case LineEndingCRLF:
		return "crlf"
	}
	return "none"
}

// lineBreak returns the line break written for e.
func (e LineEnding) lineBreak() string {
	if e == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// ParseOutputStyle converts "flow", "block" or "auto".
func ParseOutputStyle(s string) (OutputStyle, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return StyleAuto, nil
	case "flow":
		return StyleFlow, nil
	case "block":
		return StyleBlock, nil
	}
	return 0, errs.NewOptions("unknown style %q (available: flow, block, auto)", s)
}

// ParseQuoteStyle converts "double", "single" or "auto".
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch strings.ToLower(s) {
	case "double", "":
		return QuoteDouble, nil
	case "single":
		return QuoteSingle, nil
	case "auto":
		return QuoteAuto, nil
	}
	return 0, errs.NewOptions("unknown quote style %q (available: double, single, auto)", s)
}

// ParseLineEnding converts "none", "lf" or "crlf".
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return LineEndingNone, nil
	case "lf":
		return LineEndingLF, nil
	case "crlf":
		return LineEndingCRLF, nil
	}
	return 0, errs.NewOptions("unknown line ending %q (available: none, lf, crlf)", s)
}

// ParseOptions configures parsing.
//
// Construct once, validate once with Validate or TryBuild, then pass by
// value to every call. The parse entry points do not validate again.
type ParseOptions struct {
	// StrictMode rejects empty entry values and empty documents.
	StrictMode bool
	// MaxDepth bounds array and object nesting (1..100000).
	MaxDepth int
	// AllowDuplicateKeys lets the last occurrence of a key win.
	// It cannot be combined with StrictMode.
	AllowDuplicateKeys bool
	// PreserveComments collects comments into Document.Comments.
	PreserveComments bool
	// IncludeCommentPositions records the line and column of each comment.
	// It requires PreserveComments.
	IncludeCommentPositions bool
	// NormalizeLineEndings rewrites line breaks inside decoded strings.
	NormalizeLineEndings LineEnding
}

// DefaultParseOptions returns strict parsing with comments preserved.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		StrictMode:       true,
		MaxDepth:         DefaultMaxDepth,
		PreserveComments: true,
	}
}

// StrictParseOptions is the "strict" preset.
func StrictParseOptions() ParseOptions {
	return DefaultParseOptions()
}

// PermissiveParseOptions is the "permissive" preset: empty values become
// null, duplicate keys are allowed and nesting may go to 10000.
func PermissiveParseOptions() ParseOptions {
	return ParseOptions{
		StrictMode:         false,
		MaxDepth:           10000,
		AllowDuplicateKeys: true,
		PreserveComments:   true,
	}
}

// FastParseOptions is the "fast" preset.
func FastParseOptions() ParseOptions {
	return ParseOptions{
		StrictMode: true,
		MaxDepth:   100,
	}
}

// DebugParseOptions is the "debug" preset.
func DebugParseOptions() ParseOptions {
	return ParseOptions{
		StrictMode:              false,
		MaxDepth:                DefaultMaxDepth,
		AllowDuplicateKeys:      true,
		PreserveComments:        true,
		IncludeCommentPositions: true,
	}
}

// ParseOptionsFromPreset returns a named preset: strict, permissive, fast or debug.
func ParseOptionsFromPreset(name string) (ParseOptions, error) {
	switch name {
	case "strict":
		return StrictParseOptions(), nil
	case "permissive":
		return PermissiveParseOptions(), nil
	case "fast":
		return FastParseOptions(), nil
	case "debug":
		return DebugParseOptions(), nil
	}
	return ParseOptions{}, errs.NewOptions("Unknown preset: %s. Available: strict, permissive, fast, debug", name)
}

// Validate reports contradictory or out-of-range settings.
func (o ParseOptions) Validate() error {
	if o.StrictMode && o.AllowDuplicateKeys {
		return errs.NewOptions("strict_mode and allow_duplicate_keys are incompatible")
	}
	if o.IncludeCommentPositions && !o.PreserveComments {
		return errs.NewOptions("include_comment_positions requires preserve_comments=true")
	}
	if o.MaxDepth < 1 {
		return errs.NewOptions("Max depth must be at least 1")
	}
	if o.MaxDepth > MaxMaxDepth {
		return errs.NewOptions("Max depth too large (max 100000)")
	}
	return nil
}

// IsStrict reports whether the options reject duplicates and empty values.
func (o ParseOptions) IsStrict() bool {
	return o.StrictMode && !o.AllowDuplicateKeys
}

// parserConfig converts o for the parser. A depth outside 1..MaxMaxDepth is
// clamped and comment positions need PreserveComments. When both StrictMode
// and AllowDuplicateKeys are set, duplicates follow AllowDuplicateKeys.
func (o ParseOptions) parserConfig() parser.Config {
	cfg := parser.Config{
		Strict:             o.StrictMode,
		MaxDepth:           min(max(o.MaxDepth, 1), MaxMaxDepth),
		AllowDuplicateKeys: o.AllowDuplicateKeys,
		PreserveComments:   o.PreserveComments,
		CommentPositions:   o.PreserveComments && o.IncludeCommentPositions,
	}
	if o.NormalizeLineEndings != LineEndingNone {
		cfg.LineBreak = o.NormalizeLineEndings.lineBreak()
	}
	return cfg
}

// SerializeOptions configures serialization.
type SerializeOptions struct {
	Style OutputStyle
	// Indent is the number of spaces per nesting level (0..8).
	Indent     int
	QuoteStyle QuoteStyle
	// EscapeUnicode writes every non-ASCII character as a \u escape.
	EscapeUnicode bool
	// SortKeys writes object keys in ascending byte order instead of
	// insertion order.
	SortKeys   bool
	LineEnding LineEnding
	// Pretty enables multi-line output for StyleAuto.
	Pretty bool
}

// DefaultSerializeOptions returns auto style with a two-space indent.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Style:  StyleAuto,
		Indent: 2,
	}
}

// CompactSerializeOptions is the "compact" preset.
func CompactSerializeOptions() SerializeOptions {
	return SerializeOptions{Style: StyleFlow}
}

// PrettySerializeOptions is the "pretty" preset.
func PrettySerializeOptions() SerializeOptions {
	return SerializeOptions{Style: StyleAuto, Indent: 2, Pretty: true}
}

// BlockSerializeOptions is the "block" preset.
func BlockSerializeOptions() SerializeOptions {
	return SerializeOptions{Style: StyleBlock, Indent: 2, Pretty: true}
}

// JSONCompatibleSerializeOptions is the "json_compatible" preset. Its output
// is valid JSON.
func JSONCompatibleSerializeOptions() SerializeOptions {
	return SerializeOptions{Style: StyleFlow, EscapeUnicode: true}
}

// DebugSerializeOptions is the "debug" preset.
func DebugSerializeOptions() SerializeOptions {
	return SerializeOptions{Style: StyleBlock, Indent: 4, Pretty: true, SortKeys: true}
}

// SerializeOptionsFromPreset returns a named preset: compact, pretty, block,
// json_compatible or debug.
func SerializeOptionsFromPreset(name string) (SerializeOptions, error) {
	switch name {
	case "compact":
		return CompactSerializeOptions(), nil
	case "pretty":
		return PrettySerializeOptions(), nil
	case "block":
		return BlockSerializeOptions(), nil
	case "json_compatible":
		return JSONCompatibleSerializeOptions(), nil
	case "debug":
		return DebugSerializeOptions(), nil
	}
	return SerializeOptions{}, errs.NewOptions("Unknown preset: %s. Available: compact, pretty, block, json_compatible, debug", name)
}

// Validate reports out-of-range settings.
func (o SerializeOptions) Validate() error {
	if o.Indent < 0 || o.Indent > MaxIndent {
		return errs.NewOptions("Indent must be 0-8 spaces")
	}
	return nil
}

// IsCompact reports whether output is single-line flow.
func (o SerializeOptions) IsCompact() bool {
	return !o.Pretty && o.Style == StyleFlow
}

// effective clamps the indent and applies the pretty rule: pretty output
// never uses a zero indent.
func (o SerializeOptions) effective() SerializeOptions {
	o.Indent = min(max(o.Indent, 0), MaxIndent)
	if o.Pretty && o.Indent == 0 {
		o.Indent = 2
	}
	return o
}

// ParseOptionsBuilder builds ParseOptions fluently.
//
//	opts, err := jyaml.NewParseOptionsBuilder().
//	    StrictMode(false).
//	    MaxDepth(50).
//	    TryBuild()
type ParseOptionsBuilder struct {
	opts ParseOptions
}

// NewParseOptionsBuilder starts from DefaultParseOptions.
func NewParseOptionsBuilder() *ParseOptionsBuilder {
	return &ParseOptionsBuilder{opts: DefaultParseOptions()}
}

// ParseOptionsBuilderFromPreset starts from a named preset.
func ParseOptionsBuilderFromPreset(name string) (*ParseOptionsBuilder, error) {
	opts, err := ParseOptionsFromPreset(name)
	if err != nil {
		return nil, err
	}
	return &ParseOptionsBuilder{opts: opts}, nil
}

func (b *ParseOptionsBuilder) StrictMode(strict bool) *ParseOptionsBuilder {
	b.opts.StrictMode = strict
	return b
}

func (b *ParseOptionsBuilder) MaxDepth(depth int) *ParseOptionsBuilder {
	b.opts.MaxDepth = depth
	return b
}

func (b *ParseOptionsBuilder) AllowDuplicateKeys(allow bool) *ParseOptionsBuilder {
	b.opts.AllowDuplicateKeys = allow
	return b
}

func (b *ParseOptionsBuilder) PreserveComments(preserve bool) *ParseOptionsBuilder {
	b.opts.PreserveComments = preserve
	return b
}

func (b *ParseOptionsBuilder) IncludeCommentPositions(include bool) *ParseOptionsBuilder {
	b.opts.IncludeCommentPositions = include
	return b
}

func (b *ParseOptionsBuilder) NormalizeLineEndings(ending LineEnding) *ParseOptionsBuilder {
	b.opts.NormalizeLineEndings = ending
	return b
}

// Build returns the options, raising MaxDepth to at least 1. Combinations
// are not checked; use TryBuild for that.
func (b *ParseOptionsBuilder) Build() ParseOptions {
	opts := b.opts
	if opts.MaxDepth < 1 {
		opts.MaxDepth = 1
	}
	return opts
}

// TryBuild returns the options or the first validation error.
func (b *ParseOptionsBuilder) TryBuild() (ParseOptions, error) {
	if err := b.opts.Validate(); err != nil {
		return ParseOptions{}, err
	}
	return b.opts, nil
}

// SerializeOptionsBuilder builds SerializeOptions fluently.
type SerializeOptionsBuilder struct {
	opts SerializeOptions
}

// NewSerializeOptionsBuilder starts from DefaultSerializeOptions.
func NewSerializeOptionsBuilder() *SerializeOptionsBuilder {
	return &SerializeOptionsBuilder{opts: DefaultSerializeOptions()}
}

// SerializeOptionsBuilderFromPreset starts from a named preset.
func SerializeOptionsBuilderFromPreset(name string) (*SerializeOptionsBuilder, error) {
	opts, err := SerializeOptionsFromPreset(name)
	if err != nil {
		return nil, err
	}
	return &SerializeOptionsBuilder{opts: opts}, nil
}

func (b *SerializeOptionsBuilder) Style(style OutputStyle) *SerializeOptionsBuilder {
	b.opts.Style = style
	return b
}

func (b *SerializeOptionsBuilder) Indent(indent int) *SerializeOptionsBuilder {
	b.opts.Indent = indent
	return b
}

func (b *SerializeOptionsBuilder) QuoteStyle(q QuoteStyle) *SerializeOptionsBuilder {
	b.opts.QuoteStyle = q
	return b
}

func (b *SerializeOptionsBuilder) EscapeUnicode(escape bool) *SerializeOptionsBuilder {
	b.opts.EscapeUnicode = escape
	return b
}

func (b *SerializeOptionsBuilder) SortKeys(sort bool) *SerializeOptionsBuilder {
	b.opts.SortKeys = sort
	return b
}

func (b *SerializeOptionsBuilder) LineEnding(ending LineEnding) *SerializeOptionsBuilder {
	b.opts.LineEnding = ending
	return b
}

// Pretty enables pretty printing. A zero indent becomes 2.
func (b *SerializeOptionsBuilder) Pretty(pretty bool) *SerializeOptionsBuilder {
	b.opts.Pretty = pretty
	if pretty && b.opts.Indent == 0 {
		b.opts.Indent = 2
	}
	return b
}

// Build returns the options with Indent clamped to 0..8.
func (b *SerializeOptionsBuilder) Build() SerializeOptions {
	opts := b.opts
	if opts.Indent > MaxIndent {
		opts.Indent = MaxIndent
	}
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	return opts
}

// TryBuild returns the options or an InvalidOptions error for an indent
// outside 0..8.
func (b *SerializeOptionsBuilder) TryBuild() (SerializeOptions, error) {
	if err := b.opts.Validate(); err != nil {
		return SerializeOptions{}, err
	}
	return b.opts, nil
}
