// Package value defines the JYAML data model.
//
// A Value is a tagged union of Null, Bool, Number, String, Array and Object.
// It is the single result type of parsing and the single input type of
// serialization. The zero Value is Null.
//
// # Thread Safety
//
// Values are not copied deeply on assignment; arrays and objects share their
// backing storage. The engine never mutates a Value after returning it, so a
// Value may be read from multiple goroutines as long as no caller mutates it.
//
// Example:
//
//	v := value.ObjectOf(map[string]value.Value{
//	    "name": value.String("Alice"),
//	    "age":  value.Int(30),
//	})
//	age, _ := v.Get("age")
//	n, _ := age.AsInt() // 30
package value

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JYAML value.
type Value struct {
	kind Kind
	b    bool
	num  Number
	str  string
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer number value.
func Int(i int64) Value { return Value{kind: KindNumber, num: IntNumber(i)} }

// Float returns a floating-point number value.
func Float(f float64) Value { return Value{kind: KindNumber, num: FloatNumber(f)} }

// NumberOf wraps a Number.
func NumberOf(n Number) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array value holding items. The slice is not copied.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an Object. A nil object yields an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// ObjectOf builds an object from a map. Keys are inserted in sorted order so
// the result is deterministic.
func ObjectOf(m map[string]Value) Value {
	o := NewObjectCap(len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.Set(k, m[k])
	}
	return ObjectValue(o)
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (Number, bool) {
	return v.num, v.kind == KindNumber
}

// AsInt returns the integer held by v. It fails for floats.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber || !v.num.IsInteger() {
		return 0, false
	}
	return v.num.i, true
}

// AsFloat returns v as a float64. Integers are converted.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num.Float64(), true
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsArray returns the elements held by v.
func (v Value) AsArray() ([]Value, bool) {
	return v.arr, v.kind == KindArray
}

// AsObject returns the object held by v.
func (v Value) AsObject() (*Object, bool) {
	return v.obj, v.kind == KindObject
}

// Len returns the number of elements of an array or entries of an object,
// the byte length of a string, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	case KindString:
		return len(v.str)
	}
	return 0
}

// Get looks up key in an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Index returns the i-th element of an array value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// IsCollection reports whether v is an array or an object.
func (v Value) IsCollection() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// Equal reports whether v and other hold the same data. Object entry order
// is ignored. Integer and Float numbers are never equal to each other.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num.Equal(other.num)
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, k := range v.obj.keys {
			ov, ok := other.obj.Get(k)
			if !ok || !v.obj.entries[k].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports whether a and b hold the same data.
func Equal(a, b Value) bool { return a.Equal(b) }

// String renders v in a compact flow form for diagnostics. It is not the
// serializer and does not honour any output options.
func (v Value) String() string {
	var sb strings.Builder
	v.writeDebug(&sb)
	return sb.String()
}

func (v Value) writeDebug(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(v.num.String())
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.writeDebug(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			v.obj.entries[k].writeDebug(sb)
		}
		sb.WriteByte('}')
	}
}
