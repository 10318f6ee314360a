package value

import (
	"errors"
	"math"
	"strconv"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		lexeme  string
		integer bool
		i       int64
		f       float64
	}{
		{lexeme: "0", integer: true, i: 0},
		{lexeme: "42", integer: true, i: 42},
		{lexeme: "-17", integer: true, i: -17},
		{lexeme: "+5", integer: true, i: 5},
		{lexeme: "9223372036854775807", integer: true, i: math.MaxInt64},
		{lexeme: "3.14", f: 3.14},
		{lexeme: "1e10", f: 1e10},
		{lexeme: "2E-3", f: 0.002},
		{lexeme: "-0.0", f: math.Copysign(0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			n, err := ParseNumber(tt.lexeme)
			if err != nil {
				t.Fatalf("ParseNumber failed: %v", err)
			}
			if n.IsInteger() != tt.integer {
				t.Fatalf("Expected integer=%v, got kind %v", tt.integer, n.Kind())
			}
			if tt.integer && n.Int64() != tt.i {
				t.Errorf("Expected %d, got %d", tt.i, n.Int64())
			}
			if !tt.integer && n.Float64() != tt.f {
				t.Errorf("Expected %g, got %g", tt.f, n.Float64())
			}
		})
	}
}

func TestParseNumber_OutOfRange(t *testing.T) {
	for _, lexeme := range []string{"9223372036854775808", "-9223372036854775809", "1e999", "-1e400"} {
		if _, err := ParseNumber(lexeme); !errors.Is(err, strconv.ErrRange) {
			t.Errorf("%s: expected range error, got %v", lexeme, err)
		}
	}
}

func TestNumber_String(t *testing.T) {
	tests := []struct {
		n        Number
		expected string
	}{
		{IntNumber(-3), "-3"},
		{FloatNumber(0.1), "0.1"},
		{FloatNumber(1e21), "1e+21"},
		{FloatNumber(2), "2"},
	}
	for _, tt := range tests {
		if got := tt.n.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestValue_Equal(t *testing.T) {
	ab := NewObject()
	ab.Set("a", Int(1))
	ab.Set("b", Array(String("x")))
	ba := NewObject()
	ba.Set("b", Array(String("x")))
	ba.Set("a", Int(1))

	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{name: "nulls", a: Null(), b: Value{}, equal: true},
		{name: "integer vs float", a: Int(1), b: Float(1), equal: false},
		{name: "floats", a: Float(1.5), b: Float(1.5), equal: true},
		{name: "strings", a: String("a"), b: String("b"), equal: false},
		{name: "bool vs null", a: Bool(false), b: Null(), equal: false},
		{name: "object order ignored", a: ObjectValue(ab), b: ObjectValue(ba), equal: true},
		{name: "array order matters", a: Array(Int(1), Int(2)), b: Array(Int(2), Int(1)), equal: false},
		{name: "empty array vs nil array", a: Array(), b: Array(nil...), equal: true},
		{name: "empty object vs nil object", a: ObjectValue(nil), b: ObjectValue(NewObject()), equal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	v := ObjectOf(map[string]Value{
		"name":  String("Alice"),
		"age":   Int(30),
		"ratio": Float(0.5),
		"tags":  Array(String("a"), String("b")),
	})

	if v.Kind() != KindObject || v.Len() != 4 {
		t.Fatalf("Expected object of 4 entries, got %s of %d", v.Kind(), v.Len())
	}

	age, ok := v.Get("age")
	if !ok {
		t.Fatal("Expected age")
	}
	if n, ok := age.AsInt(); !ok || n != 30 {
		t.Errorf("Expected 30, got %d (%v)", n, ok)
	}
	if f, ok := age.AsFloat(); !ok || f != 30 {
		t.Errorf("Expected AsFloat 30, got %g (%v)", f, ok)
	}

	ratio, _ := v.Get("ratio")
	if _, ok := ratio.AsInt(); ok {
		t.Error("AsInt on a float should fail")
	}

	tags, _ := v.Get("tags")
	second, ok := tags.Index(1)
	if s, _ := second.AsString(); !ok || s != "b" {
		t.Errorf("Expected b, got %q", s)
	}
	if _, ok := tags.Index(5); ok {
		t.Error("Index out of range should fail")
	}

	o, _ := v.AsObject()
	keys := o.Keys()
	want := []string{"age", "name", "ratio", "tags"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("ObjectOf should insert sorted keys, got %v", keys)
		}
	}
}

func TestObject_SetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(1))
	o.Set("a", Int(2))
	if replaced := o.Set("b", Int(3)); !replaced {
		t.Error("Expected replace")
	}
	keys := o.Keys()
	if keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Expected [b a], got %v", keys)
	}
	got, _ := o.Get("b")
	if !got.Equal(Int(3)) {
		t.Errorf("Expected 3, got %s", got)
	}

	sorted := o.SortedKeys()
	if sorted[0] != "a" || sorted[1] != "b" {
		t.Errorf("Expected [a b], got %v", sorted)
	}

	if !o.Delete("b") || o.Len() != 1 || o.Has("b") {
		t.Error("Delete failed")
	}
	if o.Delete("missing") {
		t.Error("Delete of missing key reported true")
	}
}

func TestValue_String(t *testing.T) {
	o := NewObject()
	o.Set("k", Array(Null(), Bool(true), Float(1.5), String("x\n")))
	if got, want := ObjectValue(o).String(), `{"k": [null, true, 1.5, "x\n"]}`; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
