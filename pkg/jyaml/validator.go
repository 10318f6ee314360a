package jyaml

import (
	"io"
)

// Validate reports whether input is a well-formed JYAML document under
// DefaultParseOptions. It returns nil when valid, or the first *Error found.
//
// Example:
//
//	if err := jyaml.Validate(`{"port": 8080,}`); err != nil {
//	    fmt.Printf("Invalid JYAML: %v\n", err)
//	}
func Validate(input string) error {
	return ValidateWithOptions(input, DefaultParseOptions())
}

// ValidateWithOptions is Validate with explicit options. Comments are not
// collected.
func ValidateWithOptions(input string, opts ParseOptions) error {
	opts.PreserveComments = false
	opts.IncludeCommentPositions = false
	_, err := ParseWithOptions(input, opts)
	return err
}

// ValidateReader reads all of r and validates it with opts.
func ValidateReader(r io.Reader, opts ParseOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return ValidateWithOptions(string(data), opts)
}
