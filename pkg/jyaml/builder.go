package jyaml

import (
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Builder provides a fluent API for building JYAML documents.
//
//	b := jyaml.NewBuilder()
//	b.Object().
//	    Set("name", "api").
//	    SetArray("ports", func(a *jyaml.ArrayBuilder) { a.Add(80).Add(443) })
//	text, err := b.ToJYAML(jyaml.PrettySerializeOptions())
type Builder struct {
	root   value.Value
	object *ObjectBuilder
	array  *ArrayBuilder
	err    error
}

// NewBuilder creates a document builder with a null root.
func NewBuilder() *Builder {
	return &Builder{}
}

// Object makes a new object the root and returns its builder.
func (b *Builder) Object() *ObjectBuilder {
	b.object, b.array = NewObject(), nil
	return b.object
}

// Array makes a new array the root and returns its builder.
func (b *Builder) Array() *ArrayBuilder {
	b.object, b.array = nil, NewArray()
	return b.array
}

// Value sets a scalar or converted Go value as the root.
func (b *Builder) Value(v interface{}) *Builder {
	b.object, b.array = nil, nil
	b.root, b.err = InterfaceToValue(v)
	return b
}

// Build returns the root value.
func (b *Builder) Build() value.Value {
	switch {
	case b.object != nil:
		return b.object.Build()
	case b.array != nil:
		return b.array.Build()
	}
	return b.root
}

// Err returns the first conversion error recorded by the builder or any of
// its nested builders.
func (b *Builder) Err() error {
	switch {
	case b.object != nil:
		return b.object.err
	case b.array != nil:
		return b.array.err
	}
	return b.err
}

// ToJYAML serializes the document.
func (b *Builder) ToJYAML(opts SerializeOptions) (string, error) {
	if err := b.Err(); err != nil {
		return "", err
	}
	return SerializeWithOptions(b.Build(), opts)
}

// ObjectBuilder builds an object. Keys keep the order they were first set in.
type ObjectBuilder struct {
	obj *value.Object
	err error
}

// NewObject creates an object builder.
func NewObject() *ObjectBuilder {
	return &ObjectBuilder{obj: value.NewObject()}
}

// Set stores v under key. Go values are converted with InterfaceToValue; a
// conversion failure is kept and reported by Err.
func (b *ObjectBuilder) Set(key string, v interface{}) *ObjectBuilder {
	val, err := InterfaceToValue(v)
	if err != nil {
		b.fail(err)
		return b
	}
	b.obj.Set(key, val)
	return b
}

// SetObject stores a nested object built by fn.
func (b *ObjectBuilder) SetObject(key string, fn func(*ObjectBuilder)) *ObjectBuilder {
	nested := NewObject()
	fn(nested)
	b.fail(nested.err)
	b.obj.Set(key, nested.Build())
	return b
}

// SetArray stores a nested array built by fn.
func (b *ObjectBuilder) SetArray(key string, fn func(*ArrayBuilder)) *ObjectBuilder {
	nested := NewArray()
	fn(nested)
	b.fail(nested.err)
	b.obj.Set(key, nested.Build())
	return b
}

// Build returns the object value.
func (b *ObjectBuilder) Build() value.Value {
	return value.ObjectValue(b.obj)
}

// Err returns the first conversion error.
func (b *ObjectBuilder) Err() error {
	return b.err
}

func (b *ObjectBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// ArrayBuilder builds an array.
type ArrayBuilder struct {
	items []value.Value
	err   error
}

// NewArray creates an array builder.
func NewArray() *ArrayBuilder {
	return &ArrayBuilder{items: []value.Value{}}
}

// Add appends v, converted with InterfaceToValue.
func (b *ArrayBuilder) Add(v interface{}) *ArrayBuilder {
	val, err := InterfaceToValue(v)
	if err != nil {
		b.fail(err)
		return b
	}
	b.items = append(b.items, val)
	return b
}

// AddObject appends a nested object built by fn.
func (b *ArrayBuilder) AddObject(fn func(*ObjectBuilder)) *ArrayBuilder {
	nested := NewObject()
	fn(nested)
	b.fail(nested.err)
	b.items = append(b.items, nested.Build())
	return b
}

// AddArray appends a nested array built by fn.
func (b *ArrayBuilder) AddArray(fn func(*ArrayBuilder)) *ArrayBuilder {
	nested := NewArray()
	fn(nested)
	b.fail(nested.err)
	b.items = append(b.items, nested.Build())
	return b
}

// Build returns the array value.
func (b *ArrayBuilder) Build() value.Value {
	return value.Array(b.items...)
}

// Err returns the first conversion error.
func (b *ArrayBuilder) Err() error {
	return b.err
}

func (b *ArrayBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
