package tokenizer

import (
	"strings"

	shape "github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/shape-jyaml/internal/errs"
)

// measureIndent consumes the leading spaces of the current line and returns
// their count. A tab in the run is rejected at its own column.
func (l *Lexer) measureIndent() (int, error) {
	width := 0
	for {
		switch l.peekAt(0) {
		case ' ':
			l.stream.NextChar()
			width++
		case '\t':
			return 0, &errs.Error{Kind: errs.TabInIndentation, Line: l.Line(), Column: l.Column()}
		default:
			return width, nil
		}
	}
}

// BlockIndent reports the indentation of the next non-blank line without
// consuming anything. It returns -1 when only blank lines remain.
//
// The lexer must be positioned at the start of a line, which is the case
// right after a Newline token.
func (l *Lexer) BlockIndent() int {
	cs := l.stream.Clone()
	for !cs.IsEos() {
		width := 0
		for r, ok := cs.PeekChar(); ok && r == ' '; r, ok = cs.PeekChar() {
			cs.NextChar()
			width++
		}
		if !isBlank(readLine(cs)) {
			return width
		}
	}
	return -1
}

// ReadBlock captures the raw content of a block scalar.
//
// Lines are consumed until a non-blank line indented less than
// contentIndent. That line is left unread and the lexer is positioned at its
// start. Whitespace-only lines are blank lines of the scalar. Indentation
// beyond contentIndent is kept for the literal style. A tab is only rejected
// while it falls inside the content indentation.
//
// The lexer must be positioned at the start of the first content line.
func (l *Lexer) ReadBlock(contentIndent int, style BlockStyle, chomp Chomping) (string, error) {
	var lines []string

	for !l.stream.IsEos() {
		start := l.stream.Clone()

		width := 0
		for l.peekAt(0) == ' ' {
			l.stream.NextChar()
			width++
		}
		if width < contentIndent && l.peekAt(0) == '\t' {
			return "", &errs.Error{Kind: errs.TabInIndentation, Line: l.Line(), Column: l.Column()}
		}

		rest := strings.TrimSuffix(readLine(l.stream), "\r")
		if isBlank(rest) {
			lines = append(lines, "")
			continue
		}
		if width < contentIndent {
			l.stream.Match(start)
			break
		}

		lines = append(lines, strings.Repeat(" ", width-contentIndent)+rest)
	}

	l.atLineStart = true
	return assembleBlock(lines, style, chomp), nil
}

// readLine consumes the rest of the current line and its line break, and
// returns the line without the break.
func readLine(s shape.Stream) string {
	var sb strings.Builder
	for {
		r, ok := s.NextChar()
		if !ok || r == '\n' {
			return sb.String()
		}
		sb.WriteRune(r)
	}
}

// assembleBlock joins captured lines and applies the chomping rule.
func assembleBlock(lines []string, style BlockStyle, chomp Chomping) string {
	trailing := 0
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		trailing++
	}

	var body string
	if style == Folded {
		body = foldLines(lines)
	} else {
		body = strings.Join(lines, "\n")
	}

	switch chomp {
	case Strip:
		return body
	case Keep:
		if body != "" {
			body += "\n"
		}
		return body + strings.Repeat("\n", trailing)
	default:
		if body != "" {
			body += "\n"
		}
		return body
	}
}

// foldLines joins contiguous non-blank lines with a space and separates the
// resulting paragraphs with a newline.
func foldLines(lines []string) string {
	var paragraphs []string
	var current []string
	for _, line := range lines {
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = current[:0]
			}
			continue
		}
		current = append(current, strings.TrimLeft(line, " "))
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return strings.Join(paragraphs, "\n")
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\r' {
			return false
		}
	}
	return true
}
