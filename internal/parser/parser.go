// Package parser implements indentation-aware recursive descent parsing for JYAML.
// Each production rule in the grammar corresponds to a parse function.
//
// Flow collections ([...] and {...}) ignore layout entirely. Block collections
// are delimited by the indentation of their first token: an entry continues
// the collection only when it is the first token on its line and sits at
// exactly that indentation.
package parser

import (
	"strings"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/internal/tokenizer"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Config controls parser behavior.
type Config struct {
	// Strict rejects empty entry values and empty documents.
	Strict bool
	// MaxDepth bounds the nesting of arrays and objects.
	MaxDepth int
	// AllowDuplicateKeys lets a repeated key overwrite the earlier value.
	AllowDuplicateKeys bool
	// PreserveComments records comments seen during the parse.
	PreserveComments bool
	// CommentPositions records the line and column of each comment.
	CommentPositions bool
	// LineBreak, when set, replaces every line break in decoded strings.
	LineBreak string
}

// DefaultConfig returns the configuration used by Parse in the public API.
func DefaultConfig() Config {
	return Config{
		Strict:           true,
		MaxDepth:         1000,
		PreserveComments: true,
	}
}

// Comment is a comment collected during parsing.
type Comment struct {
	Text   string
	Line   int
	Column int
}

// Parser builds a value.Value from JYAML text.
// It keeps one current token and a single peeked token for lookahead.
type Parser struct {
	lexer     *tokenizer.Lexer
	cfg       Config
	cur       tokenizer.Token
	peeked    tokenizer.Token
	hasPeeked bool
	depth     int
	flow      int
	comments  []Comment
}

// NewParser creates a parser for input. BOM and UTF-8 problems are reported
// here, before any token is read.
func NewParser(input string, cfg Config) (*Parser, error) {
	lexer, err := tokenizer.New(input)
	if err != nil {
		return nil, err
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	return &Parser{lexer: lexer, cfg: cfg}, nil
}

// Comments returns the comments collected by Parse.
func (p *Parser) Comments() []Comment {
	return p.comments
}

// Parse parses the whole input.
//
// Grammar:
//
//	Document = { Trivia } [ Value ] { Trivia } EOF ;
func (p *Parser) Parse() (value.Value, error) {
	if err := p.next(); err != nil {
		return value.Value{}, err
	}
	if err := p.skipTrivia(); err != nil {
		return value.Value{}, err
	}

	if p.cur.Kind == tokenizer.TokenEOF {
		if p.cfg.Strict {
			return value.Value{}, errs.NewSyntax(p.cur.Line, p.cur.Column, "empty document")
		}
		return value.Null(), nil
	}

	v, err := p.parseValue(-1)
	if err != nil {
		return value.Value{}, err
	}

	if err := p.skipTrivia(); err != nil {
		return value.Value{}, err
	}
	if p.cur.Kind != tokenizer.TokenEOF {
		return value.Value{}, p.unexpected("end of input")
	}
	return v, nil
}

// parseValue dispatches on the current token. parent is the indentation of
// the enclosing block construct, -1 at the document root.
//
// Grammar:
//
//	Value = Scalar | FlowArray | FlowObject | BlockArray | BlockObject | BlockScalar ;
func (p *Parser) parseValue(parent int) (value.Value, error) {
	tok := p.cur
	switch tok.Kind {
	case tokenizer.TokenNull:
		return value.Null(), p.next()
	case tokenizer.TokenTrue:
		return value.Bool(true), p.next()
	case tokenizer.TokenFalse:
		return value.Bool(false), p.next()
	case tokenizer.TokenNumber:
		return p.parseNumber()
	case tokenizer.TokenString:
		next, err := p.peek()
		if err != nil {
			return value.Value{}, err
		}
		if next.Kind == tokenizer.TokenColon {
			if p.flow > 0 {
				return value.Value{}, blockInFlow(tok)
			}
			return p.parseBlockObject()
		}
		return value.String(p.normalize(tok.Value)), p.next()
	case tokenizer.TokenLBracket:
		return p.parseFlowArray()
	case tokenizer.TokenLBrace:
		return p.parseFlowObject()
	case tokenizer.TokenDash:
		if p.flow > 0 {
			return value.Value{}, blockInFlow(tok)
		}
		return p.parseBlockArray()
	}

	if _, _, ok := tok.Kind.BlockScalar(); ok {
		if p.flow > 0 {
			return value.Value{}, blockInFlow(tok)
		}
		return p.parseBlockScalar(parent)
	}

	return value.Value{}, p.unexpected("value")
}

// parseNumber converts the current numeric lexeme.
func (p *Parser) parseNumber() (value.Value, error) {
	tok := p.cur
	n, err := value.ParseNumber(tok.Value)
	if err != nil {
		return value.Value{}, &errs.Error{
			Kind:    errs.InvalidNumber,
			Line:    tok.Line,
			Column:  tok.Column,
			Text:    tok.Value,
			Message: "number out of range",
		}
	}
	return value.NumberOf(n), p.next()
}

// parseBlockObject parses a block mapping. The current token is a key that is
// followed by a colon.
//
// Grammar:
//
//	BlockObject = Entry { NEWLINE Indent(n) Entry } ;
//	Entry       = String ":" EntryValue ;
func (p *Parser) parseBlockObject() (value.Value, error) {
	first := p.cur
	indent := first.Column - 1
	if err := p.enter(first); err != nil {
		return value.Value{}, err
	}
	defer p.leave()

	obj := value.NewObject()
	for {
		key := p.cur
		if key.Kind != tokenizer.TokenString {
			return value.Value{}, p.unexpected("key")
		}
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
		colon := p.cur
		if colon.Kind != tokenizer.TokenColon {
			return value.Value{}, p.unexpected("':'")
		}
		if err := p.next(); err != nil {
			return value.Value{}, err
		}

		v, err := p.parseEntryValue(indent, colon)
		if err != nil {
			return value.Value{}, err
		}
		if err := p.insert(obj, key, v); err != nil {
			return value.Value{}, err
		}

		more, err := p.continueBlock(indent, tokenizer.TokenString)
		if err != nil {
			return value.Value{}, err
		}
		if !more {
			break
		}
	}

	return value.ObjectValue(obj), nil
}

// parseEntryValue parses what follows the colon of a block entry.
//
// Grammar:
//
//	EntryValue = InlineValue
//	           | [ Comment ] NEWLINE ( Indent(>n) Value | Indent(n) BlockArray | empty ) ;
func (p *Parser) parseEntryValue(indent int, colon tokenizer.Token) (value.Value, error) {
	if p.cur.Kind == tokenizer.TokenComment {
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
	}

	switch p.cur.Kind {
	case tokenizer.TokenNewline, tokenizer.TokenEOF:
		if err := p.skipTrivia(); err != nil {
			return value.Value{}, err
		}
		tok := p.cur
		if tok.Kind == tokenizer.TokenEOF || tok.Indent < indent {
			return p.empty(colon)
		}
		if tok.Indent == indent {
			if tok.Kind != tokenizer.TokenDash {
				return p.empty(colon)
			}
			// Indentless sequence: the array sits at the key's own indentation.
			return p.parseBlockArray()
		}
		return p.parseValue(indent)

	case tokenizer.TokenDash:
		return value.Value{}, errs.NewSyntax(p.cur.Line, p.cur.Column, "block array cannot start on the same line as its key")

	case tokenizer.TokenString:
		next, err := p.peek()
		if err != nil {
			return value.Value{}, err
		}
		if next.Kind == tokenizer.TokenColon {
			return value.Value{}, errs.NewSyntax(p.cur.Line, p.cur.Column, "block object cannot start on the same line as its key")
		}
	}

	return p.parseValue(indent)
}

// parseBlockArray parses a block sequence. The current token is a dash.
//
// Grammar:
//
//	BlockArray = Element { NEWLINE Indent(n) Element } ;
//	Element    = "-" ( InlineValue | [ Comment ] NEWLINE ( Indent(>n) Value | empty ) ) ;
func (p *Parser) parseBlockArray() (value.Value, error) {
	first := p.cur
	indent := first.Column - 1
	if err := p.enter(first); err != nil {
		return value.Value{}, err
	}
	defer p.leave()

	var items []value.Value
	for {
		dash := p.cur
		if err := p.next(); err != nil {
			return value.Value{}, err
		}

		v, err := p.parseElement(indent, dash)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)

		more, err := p.continueBlock(indent, tokenizer.TokenDash)
		if err != nil {
			return value.Value{}, err
		}
		if !more {
			break
		}
	}

	return value.Array(items...), nil
}

// parseElement parses what follows the dash of a block array element.
func (p *Parser) parseElement(indent int, dash tokenizer.Token) (value.Value, error) {
	if p.cur.Kind == tokenizer.TokenComment {
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
	}

	if p.cur.Kind == tokenizer.TokenNewline || p.cur.Kind == tokenizer.TokenEOF {
		if err := p.skipTrivia(); err != nil {
			return value.Value{}, err
		}
		if p.cur.Kind == tokenizer.TokenEOF || p.cur.Indent <= indent {
			return p.empty(dash)
		}
	}

	return p.parseValue(indent)
}

// continueBlock runs after a block entry. It reports whether another entry
// of the collection at indent follows. Entries start with kind.
func (p *Parser) continueBlock(indent int, kind tokenizer.Kind) (bool, error) {
	if !p.cur.IsTrivia() && p.cur.Kind != tokenizer.TokenEOF && !p.cur.FirstOnLine() {
		return false, p.unexpected("newline")
	}
	if err := p.skipTrivia(); err != nil {
		return false, err
	}

	tok := p.cur
	switch {
	case tok.Kind == tokenizer.TokenEOF:
		return false, nil
	case tok.Indent > indent:
		return false, &errs.Error{
			Kind:           errs.InconsistentIndentation,
			Line:           tok.Line,
			Column:         tok.Column,
			ExpectedIndent: indent,
			FoundIndent:    tok.Indent,
		}
	case tok.Indent < indent:
		return false, nil
	}

	if tok.Kind == kind {
		return true, nil
	}
	if kind == tokenizer.TokenDash {
		// A key at the array's indentation belongs to the enclosing object.
		return false, nil
	}
	return false, p.unexpected("key")
}

// parseBlockScalar parses a literal (|) or folded (>) block scalar.
//
// Grammar:
//
//	BlockScalar = ( "|" | "|-" | "|+" | ">" | ">-" | ">+" ) [ Comment ] NEWLINE RawLines ;
func (p *Parser) parseBlockScalar(parent int) (value.Value, error) {
	style, chomp, _ := p.cur.Kind.BlockScalar()
	if err := p.next(); err != nil {
		return value.Value{}, err
	}
	if p.cur.Kind == tokenizer.TokenComment {
		if err := p.next(); err != nil {
			return value.Value{}, err
		}
	}

	switch p.cur.Kind {
	case tokenizer.TokenEOF:
		return value.String(""), nil
	case tokenizer.TokenNewline:
	default:
		return value.Value{}, errs.NewSyntax(p.cur.Line, p.cur.Column, "expected newline after block scalar indicator")
	}

	// The lexer sits at the start of the first content line.
	contentIndent := p.lexer.BlockIndent()
	if contentIndent <= parent {
		contentIndent = parent + 1
	}
	text, err := p.lexer.ReadBlock(contentIndent, style, chomp)
	if err != nil {
		return value.Value{}, err
	}
	if err := p.next(); err != nil {
		return value.Value{}, err
	}
	return value.String(p.normalize(text)), nil
}

// parseFlowArray parses a bracketed array.
//
// Grammar:
//
//	FlowArray = "[" [ Value { "," Value } [ "," ] ] "]" ;
func (p *Parser) parseFlowArray() (value.Value, error) {
	if err := p.enter(p.cur); err != nil {
		return value.Value{}, err
	}
	defer p.leave()
	p.flow++
	defer func() { p.flow-- }()

	// "["
	if err := p.nextSignificant(); err != nil {
		return value.Value{}, err
	}

	var items []value.Value
	for p.cur.Kind != tokenizer.TokenRBracket {
		if p.cur.Kind == tokenizer.TokenComma {
			return value.Value{}, p.unexpected("value")
		}
		v, err := p.parseValue(-1)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, v)

		if err := p.skipTrivia(); err != nil {
			return value.Value{}, err
		}
		if p.cur.Kind == tokenizer.TokenComma {
			if err := p.nextSignificant(); err != nil {
				return value.Value{}, err
			}
			continue
		}
		if p.cur.Kind != tokenizer.TokenRBracket {
			return value.Value{}, p.unexpected("',' or ']'")
		}
	}

	// "]"
	return value.Array(items...), p.next()
}

// parseFlowObject parses a braced object.
//
// Grammar:
//
//	FlowObject = "{" [ Member { "," Member } [ "," ] ] "}" ;
//	Member     = String ":" Value ;
func (p *Parser) parseFlowObject() (value.Value, error) {
	if err := p.enter(p.cur); err != nil {
		return value.Value{}, err
	}
	defer p.leave()
	p.flow++
	defer func() { p.flow-- }()

	// "{"
	if err := p.nextSignificant(); err != nil {
		return value.Value{}, err
	}

	obj := value.NewObject()
	for p.cur.Kind != tokenizer.TokenRBrace {
		key := p.cur
		if key.Kind != tokenizer.TokenString {
			return value.Value{}, p.unexpected("string key")
		}
		if err := p.nextSignificant(); err != nil {
			return value.Value{}, err
		}

		// ":"
		if p.cur.Kind != tokenizer.TokenColon {
			return value.Value{}, p.unexpected("':'")
		}
		if err := p.nextSignificant(); err != nil {
			return value.Value{}, err
		}

		v, err := p.parseValue(-1)
		if err != nil {
			return value.Value{}, err
		}
		if err := p.insert(obj, key, v); err != nil {
			return value.Value{}, err
		}

		if err := p.skipTrivia(); err != nil {
			return value.Value{}, err
		}
		if p.cur.Kind == tokenizer.TokenComma {
			if err := p.nextSignificant(); err != nil {
				return value.Value{}, err
			}
			continue
		}
		if p.cur.Kind != tokenizer.TokenRBrace {
			return value.Value{}, p.unexpected("',' or '}'")
		}
	}

	// "}"
	return value.ObjectValue(obj), p.next()
}

// insert adds an entry, enforcing the duplicate key rule.
func (p *Parser) insert(obj *value.Object, key tokenizer.Token, v value.Value) error {
	k := p.normalize(key.Value)
	if !p.cfg.AllowDuplicateKeys && obj.Has(k) {
		return &errs.Error{Kind: errs.DuplicateKey, Key: k, Line: key.Line, Column: key.Column}
	}
	obj.Set(k, v)
	return nil
}

// empty resolves an entry with no value.
func (p *Parser) empty(at tokenizer.Token) (value.Value, error) {
	if p.cfg.Strict {
		return value.Value{}, errs.NewSyntax(at.Line, at.Column, "missing value")
	}
	return value.Null(), nil
}

func (p *Parser) enter(tok tokenizer.Token) error {
	p.depth++
	if p.depth > p.cfg.MaxDepth {
		return &errs.Error{Kind: errs.MaxDepth, Limit: p.cfg.MaxDepth, Line: tok.Line, Column: tok.Column}
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// normalize applies the configured line break to a decoded string.
func (p *Parser) normalize(s string) string {
	lb := p.cfg.LineBreak
	if lb == "" || !strings.ContainsAny(s, "\r\n") {
		return s
	}
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	if lb != "\n" {
		s = strings.ReplaceAll(s, "\n", lb)
	}
	return s
}

// Token helpers

func (p *Parser) fetch() (tokenizer.Token, error) {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return tok, err
	}
	if tok.Kind == tokenizer.TokenComment && p.cfg.PreserveComments {
		c := Comment{Text: tok.Value}
		if p.cfg.CommentPositions {
			c.Line, c.Column = tok.Line, tok.Column
		}
		p.comments = append(p.comments, c)
	}
	return tok, nil
}

// next moves to the following token.
func (p *Parser) next() error {
	if p.hasPeeked {
		p.cur = p.peeked
		p.hasPeeked = false
		return nil
	}
	tok, err := p.fetch()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// peek returns the token after the current one without consuming it.
func (p *Parser) peek() (tokenizer.Token, error) {
	if !p.hasPeeked {
		tok, err := p.fetch()
		if err != nil {
			return tok, err
		}
		p.peeked = tok
		p.hasPeeked = true
	}
	return p.peeked, nil
}

// skipTrivia advances past newlines, indentation and comments.
func (p *Parser) skipTrivia() error {
	for p.cur.IsTrivia() {
		if err := p.next(); err != nil {
			return err
		}
	}
	return nil
}

// nextSignificant advances once, then past any trivia.
func (p *Parser) nextSignificant() error {
	if err := p.next(); err != nil {
		return err
	}
	return p.skipTrivia()
}

func (p *Parser) unexpected(expected string) error {
	return errs.NewUnexpected(p.cur.Line, p.cur.Column, p.cur.String(), expected)
}

func blockInFlow(tok tokenizer.Token) error {
	return &errs.Error{Kind: errs.BlockInFlow, Line: tok.Line, Column: tok.Column}
}
