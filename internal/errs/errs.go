// Package errs defines the closed set of errors produced by the JYAML engine.
//
// Every error is a *Error carrying a Kind plus the structured fields that
// kind needs. Lexical and syntactic errors always carry a 1-based line and
// column.
package errs

import (
	"fmt"
	"strconv"
)

// Kind enumerates the error taxonomy.
type Kind int

const (
	Syntax Kind = iota + 1
	UnexpectedToken
	InvalidEscape
	InconsistentIndentation
	TabInIndentation
	InvalidNumber
	DuplicateKey
	BlockInFlow
	InvalidUtf8
	BomNotAllowed
	InvalidOptions
	MaxDepth
	Serialization
	Deserialization
)

var kindNames = [...]string{
	Syntax:                  "Syntax",
	UnexpectedToken:         "UnexpectedToken",
	InvalidEscape:           "InvalidEscape",
	InconsistentIndentation: "InconsistentIndentation",
	TabInIndentation:        "TabInIndentation",
	InvalidNumber:           "InvalidNumber",
	DuplicateKey:            "DuplicateKey",
	BlockInFlow:             "BlockInFlow",
	InvalidUtf8:             "InvalidUtf8",
	BomNotAllowed:           "BomNotAllowed",
	InvalidOptions:          "InvalidOptions",
	MaxDepth:                "MaxDepth",
	Serialization:           "Serialization",
	Deserialization:         "Deserialization",
}

// String returns the kind's name.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Error is a structured engine error.
type Error struct {
	Kind   Kind
	Line   int
	Column int

	// Offset is the byte offset for InvalidUtf8.
	Offset int
	// Message is the free text of Syntax, InvalidOptions, Serialization and
	// Deserialization errors.
	Message string
	// Found and Expected describe UnexpectedToken.
	Found    string
	Expected string
	// Char is the offending escape character.
	Char rune
	// Key is the repeated key of DuplicateKey.
	Key string
	// Text is the offending numeric lexeme.
	Text string
	// ExpectedIndent and FoundIndent describe InconsistentIndentation.
	ExpectedIndent int
	FoundIndent    int
	// Limit is the configured maximum for MaxDepth.
	Limit int
}

// Error formats the error with its position.
func (e *Error) Error() string {
	switch e.Kind {
	case Syntax:
		return fmt.Sprintf("Syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	case UnexpectedToken:
		return fmt.Sprintf("Unexpected token '%s' at line %d, column %d, expected %s", e.Found, e.Line, e.Column, e.Expected)
	case InvalidEscape:
		return fmt.Sprintf("Invalid escape sequence '\\%c' at line %d, column %d", e.Char, e.Line, e.Column)
	case InconsistentIndentation:
		return fmt.Sprintf("Inconsistent indentation at line %d: expected %d spaces, found %d", e.Line, e.ExpectedIndent, e.FoundIndent)
	case TabInIndentation:
		return fmt.Sprintf("Tab character in indentation at line %d, column %d", e.Line, e.Column)
	case InvalidNumber:
		msg := fmt.Sprintf("Invalid number format '%s' at line %d, column %d", e.Text, e.Line, e.Column)
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	case DuplicateKey:
		return fmt.Sprintf("Duplicate key '%s' at line %d, column %d", e.Key, e.Line, e.Column)
	case BlockInFlow:
		return fmt.Sprintf("Block style not allowed in flow context at line %d, column %d", e.Line, e.Column)
	case InvalidUtf8:
		return fmt.Sprintf("Invalid UTF-8 sequence at byte %d", e.Offset)
	case BomNotAllowed:
		return "BOM (Byte Order Mark) not allowed at beginning of file"
	case InvalidOptions:
		return "Invalid options: " + e.Message
	case MaxDepth:
		return fmt.Sprintf("Maximum nesting depth %d exceeded at line %d, column %d", e.Limit, e.Line, e.Column)
	case Serialization:
		return "Serialization error: " + e.Message
	case Deserialization:
		return "Deserialization error: " + e.Message
	}
	return e.Kind.String() + ": " + e.Message
}

// Position returns "line L, column C", or "" when the error has no position.
func (e *Error) Position() string {
	if e.Line == 0 {
		return ""
	}
	return fmt.Sprintf("line %d, column %d", e.Line, e.Column)
}

// Is matches another *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel values for errors.Is comparisons.
var (
	ErrSyntax                  = &Error{Kind: Syntax}
	ErrUnexpectedToken         = &Error{Kind: UnexpectedToken}
	ErrInvalidEscape           = &Error{Kind: InvalidEscape}
	ErrInconsistentIndentation = &Error{Kind: InconsistentIndentation}
	ErrTabInIndentation        = &Error{Kind: TabInIndentation}
	ErrInvalidNumber           = &Error{Kind: InvalidNumber}
	ErrDuplicateKey            = &Error{Kind: DuplicateKey}
	ErrBlockInFlow             = &Error{Kind: BlockInFlow}
	ErrInvalidUtf8             = &Error{Kind: InvalidUtf8}
	ErrBomNotAllowed           = &Error{Kind: BomNotAllowed}
	ErrInvalidOptions          = &Error{Kind: InvalidOptions}
	ErrMaxDepth                = &Error{Kind: MaxDepth}
	ErrSerialization           = &Error{Kind: Serialization}
	ErrDeserialization         = &Error{Kind: Deserialization}
)

// NewSyntax returns a Syntax error.
func NewSyntax(line, column int, format string, args ...any) *Error {
	return &Error{Kind: Syntax, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// NewUnexpected returns an UnexpectedToken error.
func NewUnexpected(line, column int, found, expected string) *Error {
	return &Error{Kind: UnexpectedToken, Line: line, Column: column, Found: found, Expected: expected}
}

// NewOptions returns an InvalidOptions error.
func NewOptions(format string, args ...any) *Error {
	return &Error{Kind: InvalidOptions, Message: fmt.Sprintf(format, args...)}
}

// NewSerialization returns a Serialization error.
func NewSerialization(format string, args ...any) *Error {
	return &Error{Kind: Serialization, Message: fmt.Sprintf(format, args...)}
}

// NewDeserialization returns a Deserialization error.
func NewDeserialization(format string, args ...any) *Error {
	return &Error{Kind: Deserialization, Message: fmt.Sprintf(format, args...)}
}
