package jyaml

import (
	"errors"
	"math"
	"testing"

	"github.com/shapestone/shape-jyaml/pkg/value"
)

// TestBuilder_Object verifies fluent object building
func TestBuilder_Object(t *testing.T) {
	b := NewBuilder()
	b.Object().
		Set("name", "Alice").
		Set("age", int64(30)).
		Set("active", true)

	text, err := b.ToJYAML(BlockSerializeOptions())
	if err != nil {
		t.Fatalf("ToJYAML() error: %v", err)
	}

	expected := `"name": "Alice"
"age": 30
"active": true`
	if text != expected {
		t.Errorf("Expected:\n%s\ngot:\n%s", expected, text)
	}
}

// TestBuilder_Nested verifies nested structures keep insertion order
func TestBuilder_Nested(t *testing.T) {
	obj := NewObject().
		Set("name", "api").
		SetObject("server", func(s *ObjectBuilder) {
			s.Set("port", 8080).Set("tls", false)
		}).
		SetArray("tags", func(a *ArrayBuilder) {
			a.Add("edge").AddObject(func(o *ObjectBuilder) {
				o.Set("zone", "eu")
			}).AddArray(func(inner *ArrayBuilder) {
				inner.Add(1).Add(2.5)
			})
		})

	if err := obj.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	text, err := SerializeWithOptions(obj.Build(), CompactSerializeOptions())
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	want := `{"name": "api", "server": {"port": 8080, "tls": false}, "tags": ["edge", {"zone": "eu"}, [1, 2.5]]}`
	if text != want {
		t.Errorf("Expected %s, got %s", want, text)
	}
}

func TestBuilder_Roots(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*Builder)
		expected string
	}{
		{name: "empty builder is null", build: func(*Builder) {}, expected: "null"},
		{name: "scalar", build: func(b *Builder) { b.Value("hi") }, expected: `"hi"`},
		{name: "go value", build: func(b *Builder) { b.Value([]int{1, 2}) }, expected: "[1, 2]"},
		{name: "empty array", build: func(b *Builder) { b.Array() }, expected: "[]"},
		{name: "empty object", build: func(b *Builder) { b.Object() }, expected: "{}"},
		{
			name:     "last root wins",
			build:    func(b *Builder) { b.Object().Set("a", 1); b.Array().Add(true) },
			expected: "[true]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			text, err := b.ToJYAML(CompactSerializeOptions())
			if err != nil {
				t.Fatalf("ToJYAML() error: %v", err)
			}
			if text != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, text)
			}
		})
	}
}

func TestBuilder_Overwrite(t *testing.T) {
	v := NewObject().Set("a", 1).Set("b", 2).Set("a", 3).Build()
	obj, _ := v.AsObject()
	if keys := obj.Keys(); len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Expected keys [a b], got %v", keys)
	}
	if got, _ := obj.Get("a"); !got.Equal(value.Int(3)) {
		t.Errorf("Expected a=3, got %s", got)
	}
}

// TestBuilder_Errors verifies conversion errors surface through Err and ToJYAML
func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder()
	b.Object().
		Set("ok", 1).
		SetArray("bad", func(a *ArrayBuilder) {
			a.Add(math.NaN())
		}).
		Set("also bad", make(chan int))

	if err := b.Err(); !errors.Is(err, ErrSerialization) {
		t.Fatalf("Expected Serialization error, got %v", err)
	}
	if _, err := b.ToJYAML(DefaultSerializeOptions()); err == nil {
		t.Error("ToJYAML() should fail after a conversion error")
	}

	scalar := NewBuilder().Value(func() {})
	if scalar.Err() == nil {
		t.Error("Expected error for func value")
	}
}

func TestBuilder_ParsesBack(t *testing.T) {
	b := NewBuilder()
	b.Array().
		AddObject(func(o *ObjectBuilder) {
			o.Set("text", "line one\nline two").Set("none", nil)
		}).
		Add(-0.5)

	for name, opts := range roundTripOptions() {
		t.Run(name, func(t *testing.T) {
			text, err := b.ToJYAML(opts)
			if err != nil {
				t.Fatalf("ToJYAML() error: %v", err)
			}
			back, err := Parse(text)
			if err != nil {
				t.Fatalf("Parse error: %v\n%s", err, text)
			}
			if !back.Equal(b.Build()) {
				t.Errorf("Round trip mismatch: %s vs %s", back, b.Build())
			}
		})
	}
}
