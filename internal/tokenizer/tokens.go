// Package tokenizer provides JYAML tokenization.
//
// The Lexer walks a shape-core character stream one token at a time and
// records the indentation of the current line. Block scalar content is
// never tokenized; the parser hands it to ReadBlock instead.
package tokenizer

import (
	"strconv"

	shape "github.com/shapestone/shape-core/pkg/tokenizer"
)

// Kind names a token type.
type Kind string

// Token kinds. These correspond to the terminals of the JYAML grammar.
const (
	// Literal tokens
	TokenNull   Kind = "Null"   // null
	TokenTrue   Kind = "True"   // true
	TokenFalse  Kind = "False"  // false
	TokenNumber Kind = "Number" // -12, 3.5, 1e10 (raw lexeme)
	TokenString Kind = "String" // "..." or '...' (decoded)

	// Structural tokens
	TokenColon    Kind = "Colon"    // :
	TokenComma    Kind = "Comma"    // ,
	TokenLBracket Kind = "LBracket" // [
	TokenRBracket Kind = "RBracket" // ]
	TokenLBrace   Kind = "LBrace"   // {
	TokenRBrace   Kind = "RBrace"   // }
	TokenDash     Kind = "Dash"     // - (block array entry)

	// Block scalar introducers
	TokenPipe         Kind = "Pipe"         // |
	TokenPipeStrip    Kind = "PipeStrip"    // |-
	TokenPipeKeep     Kind = "PipeKeep"     // |+
	TokenGreater      Kind = "Greater"      // >
	TokenGreaterStrip Kind = "GreaterStrip" // >-
	TokenGreaterKeep  Kind = "GreaterKeep"  // >+

	// Layout tokens
	TokenNewline Kind = "Newline" // \n
	TokenIndent  Kind = "Indent"  // leading spaces of a line
	TokenComment Kind = "Comment" // # ... or // ...
	TokenEOF     Kind = "EOF"
)

// Token is a single lexical unit.
type Token struct {
	Kind Kind
	// Value holds the decoded string, the raw number lexeme or the comment text.
	Value string
	// Width is the indentation width of an Indent token.
	Width int
	// Indent is the indentation of the line the token sits on.
	Indent int
	// Position locates the first character of the token.
	shape.Position
}

// FirstOnLine reports whether no other token precedes t on its line.
func (t Token) FirstOnLine() bool {
	return t.Column == t.Indent+1
}

// IsTrivia reports whether t carries no data for the parser.
func (t Token) IsTrivia() bool {
	return t.Kind == TokenNewline || t.Kind == TokenIndent || t.Kind == TokenComment
}

// String renders the token the way it is shown in error messages.
func (t Token) String() string {
	switch t.Kind {
	case TokenNull:
		return "null"
	case TokenTrue:
		return "true"
	case TokenFalse:
		return "false"
	case TokenNumber:
		return t.Value
	case TokenString:
		return strconv.Quote(t.Value)
	case TokenColon:
		return ":"
	case TokenComma:
		return ","
	case TokenLBracket:
		return "["
	case TokenRBracket:
		return "]"
	case TokenLBrace:
		return "{"
	case TokenRBrace:
		return "}"
	case TokenDash:
		return "-"
	case TokenPipe:
		return "|"
	case TokenPipeStrip:
		return "|-"
	case TokenPipeKeep:
		return "|+"
	case TokenGreater:
		return ">"
	case TokenGreaterStrip:
		return ">-"
	case TokenGreaterKeep:
		return ">+"
	case TokenNewline:
		return "newline"
	case TokenIndent:
		return "indent"
	case TokenComment:
		return "comment"
	case TokenEOF:
		return "end of input"
	}
	return string(t.Kind)
}

// BlockStyle selects how block scalar lines are joined.
type BlockStyle int

const (
	// Literal keeps line breaks (|).
	Literal BlockStyle = iota
	// Folded joins lines of a paragraph with spaces (>).
	Folded
)

// Chomping controls trailing line breaks of a block scalar.
type Chomping int

const (
	// Clip keeps a single trailing newline.
	Clip Chomping = iota
	// Strip drops all trailing newlines (- suffix).
	Strip
	// Keep preserves trailing blank lines (+ suffix).
	Keep
)

// BlockScalar reports the style and chomping of a block scalar introducer.
func (k Kind) BlockScalar() (BlockStyle, Chomping, bool) {
	switch k {
	case TokenPipe:
		return Literal, Clip, true
	case TokenPipeStrip:
		return Literal, Strip, true
	case TokenPipeKeep:
		return Literal, Keep, true
	case TokenGreater:
		return Folded, Clip, true
	case TokenGreaterStrip:
		return Folded, Strip, true
	case TokenGreaterKeep:
		return Folded, Keep, true
	}
	return 0, 0, false
}
