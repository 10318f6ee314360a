package parser

import (
	"errors"
	"testing"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Test helpers

func permissiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Strict = false
	cfg.AllowDuplicateKeys = true
	return cfg
}

func mustParse(t *testing.T, input string, cfg Config) value.Value {
	t.Helper()
	p, err := NewParser(input, cfg)
	if err != nil {
		t.Fatalf("NewParser(%q) failed: %v", input, err)
	}
	v, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return v
}

func parseError(t *testing.T, input string, cfg Config) *errs.Error {
	t.Helper()
	p, err := NewParser(input, cfg)
	if err == nil {
		_, err = p.Parse()
	}
	if err == nil {
		t.Fatalf("expected error for %q, got nil", input)
	}
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errs.Error, got %T: %v", err, err)
	}
	return e
}

// obj builds an object from key/value pairs in order.
func obj(pairs ...any) value.Value {
	o := value.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return value.ObjectValue(o)
}

func arr(items ...value.Value) value.Value { return value.Array(items...) }
func str(s string) value.Value             { return value.String(s) }
func num(i int64) value.Value              { return value.Int(i) }

// TestParse_Valid tests documents that parse under the default configuration
func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value.Value
	}{
		{name: "integer", input: "42", expected: num(42)},
		{name: "negative integer", input: "-17", expected: num(-17)},
		{name: "float", input: "3.5", expected: value.Float(3.5)},
		{name: "exponent is float", input: "1e3", expected: value.Float(1000)},
		{name: "null", input: "null", expected: value.Null()},
		{name: "true", input: "true", expected: value.Bool(true)},
		{name: "escaped string", input: `"hello\nworld"`, expected: str("hello\nworld")},
		{name: "single-quoted string", input: `'it\'s'`, expected: str("it's")},
		{name: "flow array", input: "[1, 2, 3]", expected: arr(num(1), num(2), num(3))},
		{name: "flow array trailing comma", input: "[1, 2, 3,]", expected: arr(num(1), num(2), num(3))},
		{name: "flow object trailing comma", input: `{"a": 1,}`, expected: obj("a", num(1))},
		{name: "empty flow collections", input: `{"a": [], "b": {}}`, expected: obj("a", arr(), "b", obj())},
		{
			name:     "multi-line flow",
			input:    "[\n  1,\n    2 # two\n]",
			expected: arr(num(1), num(2)),
		},
		{
			name:     "block object",
			input:    "\"name\": \"Alice\"\n\"age\": 30",
			expected: obj("name", str("Alice"), "age", num(30)),
		},
		{
			name:     "nested block",
			input:    "\"server\":\n  \"host\": \"localhost\"\n  \"ports\":\n    - 80\n    - 443\n\"debug\": false\n",
			expected: obj("server", obj("host", str("localhost"), "ports", arr(num(80), num(443))), "debug", value.Bool(false)),
		},
		{
			name:     "array of objects",
			input:    "- \"name\": \"Alice\"\n  \"age\": 30\n- \"name\": \"Bob\"",
			expected: arr(obj("name", str("Alice"), "age", num(30)), obj("name", str("Bob"))),
		},
		{
			name:     "compact nested arrays",
			input:    "- - 1\n  - 2\n- 3",
			expected: arr(arr(num(1), num(2)), num(3)),
		},
		{
			name:     "element on following line",
			input:    "-\n  \"a\": 1\n- 2",
			expected: arr(obj("a", num(1)), num(2)),
		},
		{
			name:     "indentless sequence",
			input:    "\"k\":\n- 1\n- 2\n\"j\": 3",
			expected: obj("k", arr(num(1), num(2)), "j", num(3)),
		},
		{
			name:     "flow inside block",
			input:    "\"a\": [1, {\"b\": 2}]\n\"c\": {}",
			expected: obj("a", arr(num(1), obj("b", num(2))), "c", obj()),
		},
		{
			name:     "scalar on following line",
			input:    "\"a\":\n  1",
			expected: obj("a", num(1)),
		},
		{
			name:     "comments everywhere",
			input:    "# head\n\"a\": 1 # trailing\n// other\n\n\"b\": # before value\n  2\n",
			expected: obj("a", num(1), "b", num(2)),
		},
		{
			name:     "indented root object",
			input:    "  \"a\": 1\n  \"b\": 2",
			expected: obj("a", num(1), "b", num(2)),
		},
		{
			name:     "crlf line endings",
			input:    "\"a\": 1\r\n\"b\": [1,\r\n 2]\r\n",
			expected: obj("a", num(1), "b", arr(num(1), num(2))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, DefaultConfig())
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestParse_BlockScalars tests literal and folded scalars in context
func TestParse_BlockScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value.Value
	}{
		{
			name:     "literal clip",
			input:    "\"k\": |\n  line1\n  line2\n",
			expected: obj("k", str("line1\nline2\n")),
		},
		{
			name:     "literal strip",
			input:    "\"k\": |-\n  line1\n  line2\n",
			expected: obj("k", str("line1\nline2")),
		},
		{
			name:     "literal keep followed by key",
			input:    "\"a\": |+\n  x\n\n\"b\": 1",
			expected: obj("a", str("x\n\n"), "b", num(1)),
		},
		{
			name:     "folded",
			input:    "\"k\": >\n  a\n  b\n\n  c\n\"n\": 1",
			expected: obj("k", str("a b\nc\n"), "n", num(1)),
		},
		{
			name:     "folded strip",
			input:    "\"k\": >-\n  one\n  two",
			expected: obj("k", str("one two")),
		},
		{
			name:     "comment after indicator",
			input:    "\"k\": | # note\n  x\n",
			expected: obj("k", str("x\n")),
		},
		{
			name:     "array element",
			input:    "- |\n  text\n- 2",
			expected: arr(str("text\n"), num(2)),
		},
		{
			name:     "no content lines",
			input:    "\"a\": |\n\"b\": 1",
			expected: obj("a", str(""), "b", num(1)),
		},
		{
			name:     "indicator at end of input",
			input:    "\"a\": |",
			expected: obj("a", str("")),
		},
		{
			name:     "root scalar",
			input:    "|\n  hi\n",
			expected: str("hi\n"),
		},
		{
			name:     "comment-like content",
			input:    "\"a\": |\n  # x\n  [1, 2]\n",
			expected: obj("a", str("# x\n[1, 2]\n")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, DefaultConfig())
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestParse_Permissive tests empty values and duplicates in permissive mode
func TestParse_Permissive(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value.Value
	}{
		{name: "empty document", input: "", expected: value.Null()},
		{name: "comment only", input: "# nothing here\n", expected: value.Null()},
		{name: "empty entry", input: "\"a\":", expected: obj("a", value.Null())},
		{name: "empty entry before key", input: "\"a\":\n\"b\": 1", expected: obj("a", value.Null(), "b", num(1))},
		{name: "empty element", input: "-\n- 1", expected: arr(value.Null(), num(1))},
		{name: "duplicate last wins", input: "\"a\": 1\n\"a\": 2", expected: obj("a", num(2))},
		{name: "flow duplicate last wins", input: `{"a": 1, "b": 2, "a": 3}`, expected: obj("a", num(3), "b", num(2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, permissiveConfig())
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestParse_DuplicateKeepsFirstPosition(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": 2, "a": 3}`, permissiveConfig())
	o, _ := v.AsObject()
	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Expected keys [a b], got %v", keys)
	}
}

func TestParse_PreservesInsertionOrder(t *testing.T) {
	v := mustParse(t, "\"z\": 1\n\"a\": 2\n\"m\": 3", DefaultConfig())
	o, _ := v.AsObject()
	keys := o.Keys()
	want := []string{"z", "a", "m"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Expected keys %v, got %v", want, keys)
		}
	}
}

// TestParse_Errors tests error kinds and positions
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   errs.Kind
		line   int
		column int
	}{
		{name: "duplicate key", input: "\"name\": \"Alice\"\n\"name\": \"Bob\"", kind: errs.DuplicateKey, line: 2, column: 1},
		{name: "flow duplicate key", input: `{"a": 1, "a": 2}`, kind: errs.DuplicateKey, line: 1, column: 10},
		{name: "leading zero", input: "01234", kind: errs.InvalidNumber, line: 1, column: 1},
		{name: "integer overflow", input: "99999999999999999999", kind: errs.InvalidNumber, line: 1, column: 1},
		{name: "float overflow", input: "[1e999]", kind: errs.InvalidNumber, line: 1, column: 2},
		{name: "lone comma", input: "[,]", kind: errs.UnexpectedToken, line: 1, column: 2},
		{name: "double comma", input: "[1,,2]", kind: errs.UnexpectedToken, line: 1, column: 4},
		{name: "missing comma", input: "[1 2]", kind: errs.UnexpectedToken, line: 1, column: 4},
		{name: "unclosed array", input: "[1", kind: errs.UnexpectedToken, line: 1, column: 3},
		{name: "non-string flow key", input: "{1: 2}", kind: errs.UnexpectedToken, line: 1, column: 2},
		{name: "missing colon", input: `{"a" 1}`, kind: errs.UnexpectedToken, line: 1, column: 6},
		{name: "dash in flow", input: "[- 1]", kind: errs.BlockInFlow, line: 1, column: 2},
		{name: "key in flow array", input: `["a": 1]`, kind: errs.BlockInFlow, line: 1, column: 2},
		{name: "dash in flow object", input: `{"a": - 1}`, kind: errs.BlockInFlow, line: 1, column: 7},
		{name: "block scalar in flow", input: "[|\n  x\n]", kind: errs.BlockInFlow, line: 1, column: 2},
		{name: "inline nested object", input: `"a": "b": 1`, kind: errs.Syntax, line: 1, column: 6},
		{name: "inline block array", input: `"a": - 1`, kind: errs.Syntax, line: 1, column: 6},
		{name: "deeper key", input: "\"a\": 1\n  \"b\": 2", kind: errs.InconsistentIndentation, line: 2, column: 3},
		{name: "deeper dash", input: "- 1\n  - 2", kind: errs.InconsistentIndentation, line: 2, column: 3},
		{name: "strict missing value", input: "\"a\":", kind: errs.Syntax, line: 1, column: 4},
		{name: "strict empty element", input: "-\n- 1", kind: errs.Syntax, line: 1, column: 1},
		{name: "strict empty document", input: "", kind: errs.Syntax, line: 1, column: 1},
		{name: "trailing content", input: "1 2", kind: errs.UnexpectedToken, line: 1, column: 3},
		{name: "content after entry", input: `"a": 1 "b"`, kind: errs.UnexpectedToken, line: 1, column: 8},
		{name: "block scalar needs newline", input: `"k": | 1`, kind: errs.Syntax, line: 1, column: 8},
		{name: "non-key in object", input: "\"a\": 1\n[2]", kind: errs.UnexpectedToken, line: 2, column: 1},
		{name: "tab in indentation", input: "\"a\":\n\t\"b\": 1", kind: errs.TabInIndentation, line: 2, column: 1},
		{name: "tab in block scalar indentation", input: "\"a\": |\n  x\n \ty\n", kind: errs.TabInIndentation, line: 3, column: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseError(t, tt.input, DefaultConfig())
			if e.Kind != tt.kind {
				t.Fatalf("Expected %s, got %s: %v", tt.kind, e.Kind, e)
			}
			if e.Line != tt.line || e.Column != tt.column {
				t.Errorf("Expected position %d:%d, got %d:%d (%v)", tt.line, tt.column, e.Line, e.Column, e)
			}
		})
	}
}

func TestParse_ErrorMessages(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			input:    "\"name\": \"Alice\"\n\"name\": \"Bob\"",
			expected: "Duplicate key 'name' at line 2, column 1",
		},
		{
			input:    "1 2",
			expected: "Unexpected token '2' at line 1, column 3, expected end of input",
		},
		{
			input:    "\"a\": 1\n  \"b\": 2",
			expected: "Inconsistent indentation at line 2: expected 0 spaces, found 2",
		},
		{
			input:    "01234",
			expected: "Invalid number format '01234' at line 1, column 1: leading zeros are not allowed",
		},
		{
			input:    "",
			expected: "Syntax error at line 1, column 1: empty document",
		},
	}

	for _, tt := range tests {
		e := parseError(t, tt.input, DefaultConfig())
		if e.Error() != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, e.Error())
		}
	}
}

// TestParse_MaxDepth tests the nesting limit for flow and block collections
func TestParse_MaxDepth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		depth int
	}{
		{name: "flow arrays", input: "[[[1]]]", depth: 3},
		{name: "flow objects", input: `{"a": {"b": {"c": 1}}}`, depth: 3},
		{name: "block arrays", input: "- - - 1", depth: 3},
		{name: "block objects", input: "\"a\":\n  \"b\":\n    \"c\": 1", depth: 3},
		{name: "mixed", input: "\"a\": [{\"b\": 1}]", depth: 3},
		{name: "block scalar does not count", input: "\"a\": |\n  x\n", depth: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MaxDepth = tt.depth
			mustParse(t, tt.input, cfg)

			cfg.MaxDepth = tt.depth - 1
			if cfg.MaxDepth < 1 {
				return
			}
			e := parseError(t, tt.input, cfg)
			if e.Kind != errs.MaxDepth {
				t.Fatalf("Expected MaxDepth, got %s: %v", e.Kind, e)
			}
			if e.Limit != cfg.MaxDepth {
				t.Errorf("Expected limit %d, got %d", cfg.MaxDepth, e.Limit)
			}
		})
	}
}

func TestParse_Comments(t *testing.T) {
	input := "# one\n\"a\": 1 // two\n\"b\": |\n  # content\n# three"

	cfg := DefaultConfig()
	cfg.CommentPositions = true
	p, err := NewParser(input, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}

	want := []Comment{
		{Text: "one", Line: 1, Column: 1},
		{Text: "two", Line: 2, Column: 8},
		{Text: "three", Line: 5, Column: 1},
	}
	got := p.Comments()
	if len(got) != len(want) {
		t.Fatalf("Expected %d comments, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Comment %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	// Positions are only recorded on request.
	p, _ = NewParser(input, DefaultConfig())
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if c := p.Comments()[1]; c.Line != 0 || c.Column != 0 {
		t.Errorf("Expected no position, got %+v", c)
	}

	cfg = DefaultConfig()
	cfg.PreserveComments = false
	p, _ = NewParser(input, cfg)
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if len(p.Comments()) != 0 {
		t.Errorf("Expected no comments, got %+v", p.Comments())
	}
}

func TestParse_LineBreakNormalization(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		lineBreak string
		expected  value.Value
	}{
		{name: "none keeps escapes", input: `"a\r\nb"`, lineBreak: "", expected: str("a\r\nb")},
		{name: "lf from crlf", input: `"a\r\nb\rc"`, lineBreak: "\n", expected: str("a\nb\nc")},
		{name: "crlf from lf", input: `"a\nb"`, lineBreak: "\r\n", expected: str("a\r\nb")},
		{name: "block scalar to crlf", input: "|\n  a\n  b\n", lineBreak: "\r\n", expected: str("a\r\nb\r\n")},
		{name: "keys normalized", input: `{"x\ny": 1}`, lineBreak: "\r\n", expected: obj("x\r\ny", num(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LineBreak = tt.lineBreak
			got := mustParse(t, tt.input, cfg)
			if !got.Equal(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestNewParser_InputErrors(t *testing.T) {
	if _, err := NewParser("\uFEFF1", DefaultConfig()); !errors.Is(err, errs.ErrBomNotAllowed) {
		t.Errorf("Expected BomNotAllowed, got %v", err)
	}
	if _, err := NewParser("\"\xc3\x28\"", DefaultConfig()); !errors.Is(err, errs.ErrInvalidUtf8) {
		t.Errorf("Expected InvalidUtf8, got %v", err)
	}
}

func BenchmarkParse_Block(b *testing.B) {
	input := "\"server\":\n  \"host\": \"localhost\"\n  \"ports\":\n    - 80\n    - 443\n\"users\":\n  - \"name\": \"Alice\"\n    \"admin\": true\n  - \"name\": \"Bob\"\n    \"admin\": false\n"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p, _ := NewParser(input, DefaultConfig())
		if _, err := p.Parse(); err != nil {
			b.Fatal(err)
		}
	}
}
