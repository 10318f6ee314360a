// Package jyaml parses and serializes JYAML.
//
// JYAML is a strict superset of JSON that adds YAML-style block objects and
// arrays, literal (|) and folded (>) block scalars, single-quoted strings and
// # comments. Every JSON document is a JYAML document with the same value.
// Scalars are never implicit: strings are always quoted and the only bare
// words are true, false and null.
//
// Documents parse into value.Value trees. Objects keep their keys in
// insertion order, so serializing a parsed document is deterministic.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call creates its own parser or serializer with no shared mutable state.
// The typed encoder cache and output buffer pool are safe for concurrent use.
//
//	go func() { jyaml.Parse(input1) }()
//	go func() { jyaml.Parse(input2) }()
//	go func() { jyaml.Unmarshal(data, &v) }()
//
// # Parsing APIs
//
//   - Parse(string) parses with DefaultParseOptions
//   - ParseWithOptions(string, ParseOptions) parses with explicit options
//   - ParseDocument(string) also returns the comments found in the input
//   - ParseReader(io.Reader) reads all of r, then parses it
//   - Validate(string) checks syntax without keeping the result
//
// # Example usage with Parse:
//
//	v, err := jyaml.Parse(`
//	"name": "Alice"
//	"tags":
//	  - "admin"
//	  - "ops"
//	`)
//	if err != nil {
//	    // handle error
//	}
//	name, _ := v.Get("name")
//
// Errors are always *Error values:
//
//	var jerr *jyaml.Error
//	if errors.As(err, &jerr) {
//	    fmt.Println(jerr.Kind, jerr.Line, jerr.Column)
//	}
package jyaml

import (
	"io"

	"github.com/shapestone/shape-jyaml/internal/parser"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Comment is a comment found while parsing. Line and Column are zero unless
// ParseOptions.IncludeCommentPositions is set.
type Comment struct {
	// Text is the comment without its leading '#'.
	Text   string
	Line   int
	Column int
}

// Document is a parsed value together with its comments.
type Document struct {
	Value    value.Value
	Comments []Comment
}

// Parse parses input with DefaultParseOptions.
//
// Example:
//
//	v, err := jyaml.Parse(`{"a": 1, "b": [true, null]}`)
func Parse(input string) (value.Value, error) {
	return ParseWithOptions(input, DefaultParseOptions())
}

// ParseWithOptions parses input with opts.
func ParseWithOptions(input string, opts ParseOptions) (value.Value, error) {
	doc, err := ParseDocumentWithOptions(input, opts)
	if err != nil {
		return value.Value{}, err
	}
	return doc.Value, nil
}

// ParseDocument parses input with DefaultParseOptions and returns the value
// along with its comments.
//
// Text after '#' inside a block scalar is content and is not reported.
func ParseDocument(input string) (*Document, error) {
	return ParseDocumentWithOptions(input, DefaultParseOptions())
}

// ParseDocumentWithOptions is ParseDocument with explicit options.
//
// Options are not validated here; out-of-range values are clamped. Use
// ParseOptions.Validate or ParseOptionsBuilder.TryBuild to reject them.
func ParseDocumentWithOptions(input string, opts ParseOptions) (*Document, error) {
	p, err := parser.NewParser(input, opts.parserConfig())
	if err != nil {
		return nil, err
	}
	v, err := p.Parse()
	if err != nil {
		return nil, err
	}

	doc := &Document{Value: v}
	if raw := p.Comments(); len(raw) > 0 {
		doc.Comments = make([]Comment, len(raw))
		for i, c := range raw {
			doc.Comments[i] = Comment{Text: c.Text, Line: c.Line, Column: c.Column}
		}
	}
	return doc, nil
}

// ParseReader reads all of r and parses it with DefaultParseOptions.
//
// The input is buffered in full; JYAML block structure cannot be decided
// without seeing later lines.
//
//	file, err := os.Open("config.jyaml")
//	if err != nil {
//	    return err
//	}
//	defer file.Close()
//
//	v, err := jyaml.ParseReader(file)
func ParseReader(r io.Reader) (value.Value, error) {
	return ParseReaderWithOptions(r, DefaultParseOptions())
}

// ParseReaderWithOptions is ParseReader with explicit options. Read errors are
// returned unchanged.
func ParseReaderWithOptions(r io.Reader, opts ParseOptions) (value.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return value.Value{}, err
	}
	return ParseWithOptions(string(data), opts)
}
