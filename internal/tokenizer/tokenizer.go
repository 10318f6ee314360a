package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	shape "github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-jyaml/internal/errs"
)

// Lexer converts JYAML text into tokens.
//
// The lexer owns its stream. It is created for a single parse and is not
// safe for concurrent use.
type Lexer struct {
	stream      shape.Stream
	lineIndent  int
	atLineStart bool
}

// New creates a lexer over input.
//
// Input that begins with a byte-order mark is rejected with BomNotAllowed.
// Input that is not valid UTF-8 is rejected with InvalidUtf8 carrying the
// byte offset of the first invalid sequence.
func New(input string) (*Lexer, error) {
	if strings.HasPrefix(input, "\uFEFF") {
		return nil, &errs.Error{Kind: errs.BomNotAllowed}
	}
	if !utf8.ValidString(input) {
		return nil, &errs.Error{Kind: errs.InvalidUtf8, Offset: invalidOffset(input)}
	}
	return &Lexer{
		stream:      shape.NewStream(input),
		atLineStart: true,
	}, nil
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence.
func invalidOffset(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(s)
}

// Line returns the current line (1-based).
func (l *Lexer) Line() int { return l.stream.GetRow() }

// Column returns the current column (1-based).
func (l *Lexer) Column() int { return l.stream.GetColumn() }

// Position returns the current stream position.
func (l *Lexer) Position() shape.Position {
	return shape.NewPosition(l.stream.GetOffset(), l.stream.GetRow(), l.stream.GetColumn())
}

// NextToken returns the next token.
//
// The first call on every line returns an Indent token when the line starts
// with spaces. EOF is returned repeatedly once the input is exhausted.
func (l *Lexer) NextToken() (Token, error) {
	if l.atLineStart {
		l.atLineStart = false
		start := l.Position()
		width, err := l.measureIndent()
		if err != nil {
			return Token{}, err
		}
		l.lineIndent = width
		if width > 0 {
			return Token{Kind: TokenIndent, Width: width, Indent: width, Position: start}, nil
		}
	}

	if err := l.skipInlineSpace(); err != nil {
		return Token{}, err
	}

	pos := l.Position()
	c, ok := l.stream.PeekChar()
	if !ok {
		return l.token(TokenEOF, "", pos), nil
	}

	switch c {
	case '\n':
		l.stream.NextChar()
		l.atLineStart = true
		return l.token(TokenNewline, "", pos), nil
	case '#':
		l.stream.NextChar()
		return l.readComment(pos), nil
	case '/':
		if l.stream.MatchChars([]rune("//")) {
			return l.readComment(pos), nil
		}
		return Token{}, errs.NewSyntax(pos.Line, pos.Column, "unexpected character '/'")
	case ':':
		l.stream.NextChar()
		return l.token(TokenColon, "", pos), nil
	case ',':
		l.stream.NextChar()
		return l.token(TokenComma, "", pos), nil
	case '[':
		l.stream.NextChar()
		return l.token(TokenLBracket, "", pos), nil
	case ']':
		l.stream.NextChar()
		return l.token(TokenRBracket, "", pos), nil
	case '{':
		l.stream.NextChar()
		return l.token(TokenLBrace, "", pos), nil
	case '}':
		l.stream.NextChar()
		return l.token(TokenRBrace, "", pos), nil
	case '-':
		if isDigit(l.peekAt(1)) {
			return l.readNumber()
		}
		l.stream.NextChar()
		return l.token(TokenDash, "", pos), nil
	case '+':
		if isDigit(l.peekAt(1)) {
			return l.readNumber()
		}
		return Token{}, errs.NewSyntax(pos.Line, pos.Column, "unexpected character '+'")
	case '"':
		return l.readDoubleQuoted()
	case '\'':
		return l.readSingleQuoted()
	case '|':
		l.stream.NextChar()
		return l.token(l.blockIndicator(TokenPipe, TokenPipeStrip, TokenPipeKeep), "", pos), nil
	case '>':
		l.stream.NextChar()
		return l.token(l.blockIndicator(TokenGreater, TokenGreaterStrip, TokenGreaterKeep), "", pos), nil
	}

	if isDigit(c) {
		return l.readNumber()
	}
	if isIdentStart(c) {
		return l.readIdentifier()
	}

	return Token{}, errs.NewSyntax(pos.Line, pos.Column, "unexpected character %q", c)
}

func (l *Lexer) token(kind Kind, val string, pos shape.Position) Token {
	return Token{Kind: kind, Value: val, Indent: l.lineIndent, Position: pos}
}

// blockIndicator consumes an optional chomping suffix.
func (l *Lexer) blockIndicator(clip, strip, keep Kind) Kind {
	switch l.peekAt(0) {
	case '-':
		l.stream.NextChar()
		return strip
	case '+':
		l.stream.NextChar()
		return keep
	}
	return clip
}

// readComment reads the comment body after its marker. One space after the
// marker is consumed; trailing whitespace is trimmed.
func (l *Lexer) readComment(pos shape.Position) Token {
	if l.peekAt(0) == ' ' {
		l.stream.NextChar()
	}
	var sb strings.Builder
	for {
		r, ok := l.stream.PeekChar()
		if !ok || r == '\n' {
			break
		}
		l.stream.NextChar()
		sb.WriteRune(r)
	}
	return l.token(TokenComment, strings.TrimRight(sb.String(), " \t\r"), pos)
}

// readNumber reads a numeric lexeme: [-+] digits [. digits] [(e|E) [-+] digits].
func (l *Lexer) readNumber() (Token, error) {
	pos := l.Position()
	var sb strings.Builder

	if c := l.peekAt(0); c == '-' || c == '+' {
		l.take(&sb)
	}

	if l.peekAt(0) == '0' {
		l.take(&sb)
		if isDigit(l.peekAt(0)) {
			l.takeDigits(&sb)
			return Token{}, numberError(pos, sb.String(), "leading zeros are not allowed")
		}
	} else {
		l.takeDigits(&sb)
	}

	if l.peekAt(0) == '.' {
		l.take(&sb)
		if !isDigit(l.peekAt(0)) {
			return Token{}, numberError(pos, sb.String(), "expected digits after decimal point")
		}
		l.takeDigits(&sb)
	}

	if c := l.peekAt(0); c == 'e' || c == 'E' {
		l.take(&sb)
		if c := l.peekAt(0); c == '-' || c == '+' {
			l.take(&sb)
		}
		if !isDigit(l.peekAt(0)) {
			return Token{}, numberError(pos, sb.String(), "expected digits in exponent")
		}
		l.takeDigits(&sb)
	}

	return l.token(TokenNumber, sb.String(), pos), nil
}

func numberError(pos shape.Position, lexeme, reason string) error {
	return &errs.Error{
		Kind:    errs.InvalidNumber,
		Line:    pos.Line,
		Column:  pos.Column,
		Text:    lexeme,
		Message: reason,
	}
}

// take moves one character from the stream into sb.
func (l *Lexer) take(sb *strings.Builder) {
	if r, ok := l.stream.NextChar(); ok {
		sb.WriteRune(r)
	}
}

func (l *Lexer) takeDigits(sb *strings.Builder) {
	for isDigit(l.peekAt(0)) {
		l.take(sb)
	}
}

// readIdentifier reads a bare word. Only null, true and false are legal.
func (l *Lexer) readIdentifier() (Token, error) {
	pos := l.Position()
	var sb strings.Builder
	for isIdentPart(l.peekAt(0)) {
		l.take(&sb)
	}
	word := sb.String()
	switch word {
	case "null":
		return l.token(TokenNull, "", pos), nil
	case "true":
		return l.token(TokenTrue, "", pos), nil
	case "false":
		return l.token(TokenFalse, "", pos), nil
	}
	return Token{}, errs.NewSyntax(pos.Line, pos.Column, "invalid identifier '%s'", word)
}

// readDoubleQuoted reads a double-quoted string and decodes its escapes.
func (l *Lexer) readDoubleQuoted() (Token, error) {
	pos := l.Position()
	l.stream.NextChar() // opening quote

	var sb strings.Builder
	for {
		r, ok := l.stream.PeekChar()
		switch {
		case !ok:
			return Token{}, errs.NewSyntax(pos.Line, pos.Column, "unterminated string")
		case r == '"':
			l.stream.NextChar()
			return l.token(TokenString, sb.String(), pos), nil
		case r == '\\':
			if err := l.readEscape(&sb); err != nil {
				return Token{}, err
			}
		case r == '\n' || r == '\r':
			return Token{}, errs.NewSyntax(l.Line(), l.Column(), "unescaped line break in string")
		case unicode.IsControl(r):
			return Token{}, errs.NewSyntax(l.Line(), l.Column(), "unescaped control character U+%04X in string", r)
		default:
			l.take(&sb)
		}
	}
}

// readEscape decodes one backslash escape inside a double-quoted string.
func (l *Lexer) readEscape(sb *strings.Builder) error {
	pos := l.Position()
	l.stream.NextChar() // backslash
	e, ok := l.stream.PeekChar()
	if !ok {
		return errs.NewSyntax(pos.Line, pos.Column, "unterminated string")
	}
	switch e {
	case '"', '\\', '/':
		sb.WriteRune(e)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		l.stream.NextChar()
		r, err := l.readUnicodeEscape(pos)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
		return nil
	default:
		return &errs.Error{Kind: errs.InvalidEscape, Char: e, Line: pos.Line, Column: pos.Column}
	}
	l.stream.NextChar()
	return nil
}

// readUnicodeEscape decodes the hex digits of a \u escape, combining a
// surrogate pair into one code point.
func (l *Lexer) readUnicodeEscape(pos shape.Position) (rune, error) {
	hi, ok := l.readHex4()
	if !ok {
		return 0, errs.NewSyntax(pos.Line, pos.Column, "invalid unicode escape sequence")
	}
	switch {
	case hi >= 0xD800 && hi <= 0xDBFF:
		if !l.stream.MatchChars([]rune(`\u`)) {
			return 0, errs.NewSyntax(pos.Line, pos.Column, "unpaired high surrogate \\u%04X", hi)
		}
		lo, ok := l.readHex4()
		if !ok {
			return 0, errs.NewSyntax(pos.Line, pos.Column, "invalid unicode escape sequence")
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			return 0, errs.NewSyntax(pos.Line, pos.Column, "invalid low surrogate \\u%04X after \\u%04X", lo, hi)
		}
		return 0x10000 + (hi-0xD800)*0x400 + (lo - 0xDC00), nil
	case hi >= 0xDC00 && hi <= 0xDFFF:
		return 0, errs.NewSyntax(pos.Line, pos.Column, "unpaired low surrogate \\u%04X", hi)
	}
	return hi, nil
}

// readHex4 reads exactly four hex digits. The stream is left untouched when
// they are not there.
func (l *Lexer) readHex4() (rune, bool) {
	cs := l.stream.Clone()
	var r rune
	for i := 0; i < 4; i++ {
		c, ok := cs.NextChar()
		if !ok {
			return 0, false
		}
		d := hexValue(c)
		if d < 0 {
			return 0, false
		}
		r = r<<4 | rune(d)
	}
	l.stream.Match(cs)
	return r, true
}

// readSingleQuoted reads a single-quoted string. Only \' and \\ are escapes;
// any other backslash is kept literally together with the next character.
func (l *Lexer) readSingleQuoted() (Token, error) {
	pos := l.Position()
	l.stream.NextChar() // opening quote

	var sb strings.Builder
	for {
		r, ok := l.stream.PeekChar()
		switch {
		case !ok:
			return Token{}, errs.NewSyntax(pos.Line, pos.Column, "unterminated string")
		case r == '\'':
			l.stream.NextChar()
			return l.token(TokenString, sb.String(), pos), nil
		case r == '\\':
			if next := l.peekAt(1); next == '\'' || next == '\\' {
				l.stream.NextChar()
				l.take(&sb)
				continue
			}
			l.take(&sb)
		case r == '\n' || r == '\r':
			return Token{}, errs.NewSyntax(l.Line(), l.Column(), "unescaped line break in string")
		case unicode.IsControl(r):
			return Token{}, errs.NewSyntax(l.Line(), l.Column(), "unescaped control character U+%04X in string", r)
		default:
			l.take(&sb)
		}
	}
}

// skipInlineSpace skips spaces and carriage returns. Tabs are rejected.
func (l *Lexer) skipInlineSpace() error {
	for {
		r, ok := l.stream.PeekChar()
		if !ok {
			return nil
		}
		switch r {
		case ' ', '\r':
			l.stream.NextChar()
		case '\t':
			return &errs.Error{Kind: errs.TabInIndentation, Line: l.Line(), Column: l.Column()}
		default:
			return nil
		}
	}
}

// peekAt returns the character n positions ahead, or 0 past the end.
func (l *Lexer) peekAt(n int) rune {
	if n == 0 {
		r, _ := l.stream.PeekChar()
		return r
	}
	cs := l.stream.Clone()
	for i := 0; i < n; i++ {
		if _, ok := cs.NextChar(); !ok {
			return 0
		}
	}
	r, _ := cs.PeekChar()
	return r
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func hexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
