package jyaml

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// Unmarshaler is implemented by types that decode themselves from a parsed
// JYAML value.
type Unmarshaler interface {
	UnmarshalJYAML(value.Value) error
}

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// Unmarshal parses data with DefaultParseOptions and stores the result in the
// value pointed to by v.
//
// Unmarshal uses the inverse of the encodings that Marshal uses, allocating
// maps, slices and pointers as necessary, with the following additional rules:
//
// A JYAML null sets pointers, interfaces, maps and slices to nil and leaves
// other values at their zero value.
//
// To unmarshal an object into a struct, Unmarshal matches object keys to the
// keys used by Marshal, preferring an exact match but also accepting a
// case-insensitive match. Keys without a matching field are ignored.
//
// To unmarshal into an empty interface, Unmarshal stores one of:
//
//	bool, for JYAML booleans
//	int64, for JYAML integers
//	float64, for JYAML floats
//	string, for JYAML strings
//	[]interface{}, for JYAML arrays
//	map[string]interface{}, for JYAML objects
//	nil, for JYAML null
//
// A whole float may be stored in an integer field. Values that overflow the
// target type and mismatched kinds are Deserialization errors.
//
// Example:
//
//	type Config struct {
//	    Name string
//	    Port int
//	}
//	var cfg Config
//	err := jyaml.Unmarshal([]byte(`"name": "server"`+"\n"+`"port": 8080`), &cfg)
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalWithOptions(data, v, DefaultParseOptions())
}

// UnmarshalWithOptions is Unmarshal with explicit parse options.
func UnmarshalWithOptions(data []byte, v interface{}, opts ParseOptions) error {
	rv, err := decodeTarget(v)
	if err != nil {
		return err
	}
	val, err := ParseWithOptions(string(data), opts)
	if err != nil {
		return err
	}
	return decodeValue(val, rv)
}

// FromValue stores val in the value pointed to by v using the rules of
// Unmarshal.
func FromValue(val value.Value, v interface{}) error {
	rv, err := decodeTarget(v)
	if err != nil {
		return err
	}
	return decodeValue(val, rv)
}

func decodeTarget(v interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return rv, errs.NewDeserialization("Unmarshal(nil)")
	}
	if rv.Kind() != reflect.Ptr {
		return rv, errs.NewDeserialization("Unmarshal(non-pointer %s)", rv.Type())
	}
	if rv.IsNil() {
		return rv, errs.NewDeserialization("Unmarshal(nil %s)", rv.Type())
	}
	return rv.Elem(), nil
}

// decodeValue stores val into the settable rv.
func decodeValue(val value.Value, rv reflect.Value) error {
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(val))
		return nil
	}

	if rv.Kind() != reflect.Ptr && rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		return rv.Addr().Interface().(Unmarshaler).UnmarshalJYAML(val)
	}

	if val.IsNull() {
		switch rv.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
		}
		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(val, rv.Elem())
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return mismatch(val, rv.Type())
		}
		iv := ValueToInterface(val)
		rv.Set(reflect.ValueOf(&iv).Elem())
		return nil
	}

	switch val.Kind() {
	case value.KindArray:
		items, _ := val.AsArray()
		return decodeArray(items, rv)
	case value.KindObject:
		obj, _ := val.AsObject()
		return decodeObject(obj, rv)
	default:
		return decodeScalar(val, rv)
	}
}

// decodeScalar stores a bool, number or string value.
func decodeScalar(val value.Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.String:
		s, ok := val.AsString()
		if !ok {
			return mismatch(val, rv.Type())
		}
		rv.SetString(s)
		return nil

	case reflect.Bool:
		b, ok := val.AsBool()
		if !ok {
			return mismatch(val, rv.Type())
		}
		rv.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := integerOf(val, rv.Type())
		if err != nil {
			return err
		}
		if rv.OverflowInt(i) {
			return errs.NewDeserialization("value %d overflows %s", i, rv.Type())
		}
		rv.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, err := integerOf(val, rv.Type())
		if err != nil {
			return err
		}
		if i < 0 || rv.OverflowUint(uint64(i)) {
			return errs.NewDeserialization("value %d overflows %s", i, rv.Type())
		}
		rv.SetUint(uint64(i))
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := val.AsFloat()
		if !ok {
			return mismatch(val, rv.Type())
		}
		if rv.OverflowFloat(f) {
			return errs.NewDeserialization("value %v overflows %s", f, rv.Type())
		}
		rv.SetFloat(f)
		return nil
	}
	return mismatch(val, rv.Type())
}

// integerOf accepts integers and floats with no fractional part.
func integerOf(val value.Value, t reflect.Type) (int64, error) {
	n, ok := val.AsNumber()
	if !ok {
		return 0, mismatch(val, t)
	}
	if n.IsInteger() {
		return n.Int64(), nil
	}
	f := n.Float64()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errs.NewDeserialization("cannot unmarshal number %v into Go value of type %s", f, t)
	}
	return int64(f), nil
}

func decodeArray(items []value.Value, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Slice:
		slice := reflect.MakeSlice(rv.Type(), len(items), len(items))
		for i, item := range items {
			if err := decodeValue(item, slice.Index(i)); err != nil {
				return fmt.Errorf("in array item %d: %w", i, err)
			}
		}
		rv.Set(slice)
		return nil

	case reflect.Array:
		if len(items) > rv.Len() {
			return errs.NewDeserialization("array length %d exceeds target array length %d", len(items), rv.Len())
		}
		for i, item := range items {
			if err := decodeValue(item, rv.Index(i)); err != nil {
				return fmt.Errorf("in array item %d: %w", i, err)
			}
		}
		for i := len(items); i < rv.Len(); i++ {
			rv.Index(i).Set(reflect.Zero(rv.Type().Elem()))
		}
		return nil
	}
	return errs.NewDeserialization("cannot unmarshal array into Go value of type %s", rv.Type())
}

func decodeObject(obj *value.Object, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Struct:
		return decodeStruct(obj, rv)
	case reflect.Map:
		return decodeMap(obj, rv)
	}
	return errs.NewDeserialization("cannot unmarshal object into Go value of type %s", rv.Type())
}

func decodeStruct(obj *value.Object, rv reflect.Value) error {
	t := rv.Type()

	// Map of object keys to struct field indices
	fieldMap := make(map[string]int, t.NumField())
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}
		info := getFieldInfo(field)
		if info.skip {
			continue
		}
		fieldMap[info.name] = i
		names = append(names, info.name)
	}

	var err error
	obj.Range(func(key string, item value.Value) bool {
		idx, ok := fieldMap[key]
		if !ok {
			for _, name := range names {
				if strings.EqualFold(name, key) {
					idx, ok = fieldMap[name], true
					break
				}
			}
		}
		if !ok {
			return true
		}
		if e := decodeValue(item, rv.Field(idx)); e != nil {
			err = fmt.Errorf("in value for key %q: %w", key, e)
			return false
		}
		return true
	})
	return err
}

func decodeMap(obj *value.Object, rv reflect.Value) error {
	t := rv.Type()
	if t.Key().Kind() != reflect.String {
		return errs.NewDeserialization("unsupported map key type %s", t.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(t, obj.Len()))
	}

	var err error
	obj.Range(func(key string, item value.Value) bool {
		elem := reflect.New(t.Elem()).Elem()
		if e := decodeValue(item, elem); e != nil {
			err = fmt.Errorf("in value for key %q: %w", key, e)
			return false
		}
		rv.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), elem)
		return true
	})
	return err
}

func mismatch(val value.Value, t reflect.Type) error {
	return errs.NewDeserialization("cannot unmarshal %s into Go value of type %s", val.Kind(), t)
}
