package jyaml

import (
	"reflect"
	"strings"
)

// fieldInfo describes how a struct field maps to an object key.
type fieldInfo struct {
	name      string
	skip      bool
	omitEmpty bool
}

// getFieldInfo reads the `jyaml` tag of a struct field.
//
//	Name string `jyaml:"name,omitempty"`
//	Secret string `jyaml:"-"`
func getFieldInfo(field reflect.StructField) fieldInfo {
	tag, ok := field.Tag.Lookup("jyaml")
	if !ok {
		return fieldInfo{name: strings.ToLower(field.Name)}
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "-" && opts == "" {
		return fieldInfo{skip: true}
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}

	info := fieldInfo{name: name}
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			info.omitEmpty = true
		}
	}
	return info
}

// emptyFuncForType returns the omitempty check for values of type t.
func emptyFuncForType(t reflect.Type) func(reflect.Value) bool {
	switch t.Kind() {
	case reflect.Bool:
		return func(v reflect.Value) bool { return !v.Bool() }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v reflect.Value) bool { return v.Int() == 0 }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(v reflect.Value) bool { return v.Uint() == 0 }
	case reflect.Float32, reflect.Float64:
		return func(v reflect.Value) bool { return v.Float() == 0 }
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return func(v reflect.Value) bool { return v.Len() == 0 }
	case reflect.Ptr, reflect.Interface:
		return func(v reflect.Value) bool { return v.IsNil() }
	default:
		return func(reflect.Value) bool { return false }
	}
}
