package jyaml

import (
	"reflect"

	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Marshaler is implemented by types that build their own JYAML value.
type Marshaler interface {
	MarshalJYAML() (value.Value, error)
}

// Marshal returns the JYAML encoding of v using PrettySerializeOptions.
//
// Marshal traverses v recursively. If an encountered value implements
// Marshaler, Marshal calls its MarshalJYAML method. A value.Value is used as
// is. Otherwise the following encodings apply:
//
// Booleans, integers and floats encode as JYAML booleans and numbers. NaN,
// infinities and unsigned integers above math.MaxInt64 cannot be encoded.
//
// Strings encode as quoted strings.
//
// Arrays and slices encode as arrays, except that a nil slice encodes as null.
//
// Structs encode as objects with one entry per exported field, in
// declaration order. The key is the lowercased field name unless the field
// carries a `jyaml` tag:
//
//	Name  string `jyaml:"display_name"`
//	Email string `jyaml:"email,omitempty"`
//	Token string `jyaml:"-"`
//
// "omitempty" skips false, 0, nil pointers and interfaces, and empty
// arrays, slices, maps and strings.
//
// Maps with string keys encode as objects with their keys sorted.
//
// Pointers and interfaces encode as the value they hold, or null when nil.
//
// Channels, functions and complex numbers cannot be encoded. Cyclic data is
// not detected.
//
// Example:
//
//	type Config struct {
//	    Name string
//	    Port int
//	}
//	data, err := jyaml.Marshal(Config{Name: "server", Port: 8080})
//	// data is []byte(`{"name": "server", "port": 8080}`)
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWithOptions(v, PrettySerializeOptions())
}

// MarshalWithOptions is Marshal with explicit serialization options.
func MarshalWithOptions(v interface{}, opts SerializeOptions) ([]byte, error) {
	val, err := ToValue(v)
	if err != nil {
		return nil, err
	}
	return serializeBytes(val, opts)
}

// ToValue converts a Go value into a value.Value using the rules of Marshal.
func ToValue(v interface{}) (value.Value, error) {
	if v == nil {
		return value.Null(), nil
	}
	rv := reflect.ValueOf(v)
	return encoderForType(rv.Type())(rv)
}
