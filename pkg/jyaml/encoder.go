package jyaml

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/shapestone/shape-jyaml/internal/errs"
	"github.com/shapestone/shape-jyaml/pkg/value"
)

// encoderFunc converts rv into a value.Value.
type encoderFunc func(rv reflect.Value) (value.Value, error)

// Encoder cache: atomic.Value holding a copy-on-write map. Reads are lock-free.
var encoderCache atomic.Value
var encoderMu sync.Mutex

func init() {
	encoderCache.Store(make(map[reflect.Type]encoderFunc))
}

var (
	marshalerType = reflect.TypeOf((*Marshaler)(nil)).Elem()
	valueType     = reflect.TypeOf(value.Value{})
)

// encoderForType returns a cached encoder for t, building one if needed.
func encoderForType(t reflect.Type) encoderFunc {
	// Fast path: lock-free read
	m := encoderCache.Load().(map[reflect.Type]encoderFunc)
	if enc, ok := m[t]; ok {
		return enc
	}

	encoderMu.Lock()

	// Double-check after lock
	m = encoderCache.Load().(map[reflect.Type]encoderFunc)
	if enc, ok := m[t]; ok {
		encoderMu.Unlock()
		return enc
	}

	// Placeholder for recursive types
	var wg sync.WaitGroup
	wg.Add(1)
	var realEnc encoderFunc
	placeholder := func(rv reflect.Value) (value.Value, error) {
		wg.Wait()
		return realEnc(rv)
	}

	newM := make(map[reflect.Type]encoderFunc, len(m)+1)
	for k, v := range m {
		newM[k] = v
	}
	newM[t] = placeholder
	encoderCache.Store(newM)
	encoderMu.Unlock()

	// May recurse into encoderForType for field and element types.
	realEnc = buildEncoder(t)

	encoderMu.Lock()
	m = encoderCache.Load().(map[reflect.Type]encoderFunc)
	newM2 := make(map[reflect.Type]encoderFunc, len(m))
	for k, v := range m {
		newM2[k] = v
	}
	newM2[t] = realEnc
	encoderCache.Store(newM2)
	encoderMu.Unlock()
	wg.Done()

	return realEnc
}

func buildEncoder(t reflect.Type) encoderFunc {
	if t == valueType {
		return valueEnc
	}
	if t.Implements(marshalerType) {
		return marshalerEnc
	}
	if t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(marshalerType) {
		return buildAddrMarshalerEnc(t)
	}
	return buildEncoderNoMarshaler(t)
}

// buildEncoderNoMarshaler builds an encoder skipping the Marshaler check.
func buildEncoderNoMarshaler(t reflect.Type) encoderFunc {
	switch t.Kind() {
	case reflect.Ptr:
		return buildPtrEncoder(t)
	case reflect.Interface:
		return interfaceEnc
	case reflect.String:
		return stringEnc
	case reflect.Bool:
		return boolEnc
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intEnc
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintEnc
	case reflect.Float32, reflect.Float64:
		return floatEnc
	case reflect.Struct:
		return buildStructEncoder(t)
	case reflect.Map:
		return buildMapEncoder(t)
	case reflect.Slice:
		return buildSliceEncoder(t)
	case reflect.Array:
		return buildArrayEncoder(t)
	default:
		return unsupportedEnc(t)
	}
}

// ================================
// Primitive Encoders
// ================================

func valueEnc(rv reflect.Value) (value.Value, error) {
	return rv.Interface().(value.Value), nil
}

func boolEnc(rv reflect.Value) (value.Value, error) {
	return value.Bool(rv.Bool()), nil
}

func intEnc(rv reflect.Value) (value.Value, error) {
	return value.Int(rv.Int()), nil
}

func uintEnc(rv reflect.Value) (value.Value, error) {
	u := rv.Uint()
	if u > math.MaxInt64 {
		return value.Value{}, errs.NewSerialization("integer %d overflows int64", u)
	}
	return value.Int(int64(u)), nil
}

func floatEnc(rv reflect.Value) (value.Value, error) {
	f := rv.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Value{}, errs.NewSerialization("cannot serialize %v", f)
	}
	return value.Float(f), nil
}

func stringEnc(rv reflect.Value) (value.Value, error) {
	return value.String(rv.String()), nil
}

// ================================
// Marshaler Interface Encoders
// ================================

func marshalerEnc(rv reflect.Value) (value.Value, error) {
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return value.Null(), nil
	}
	return rv.Interface().(Marshaler).MarshalJYAML()
}

func buildAddrMarshalerEnc(t reflect.Type) encoderFunc {
	// Used when the value is not addressable.
	fallback := buildEncoderNoMarshaler(t)
	return func(rv reflect.Value) (value.Value, error) {
		if rv.CanAddr() {
			return rv.Addr().Interface().(Marshaler).MarshalJYAML()
		}
		return fallback(rv)
	}
}

// ================================
// Pointer / Interface Encoders
// ================================

func buildPtrEncoder(t reflect.Type) encoderFunc {
	elemEnc := encoderForType(t.Elem())
	return func(rv reflect.Value) (value.Value, error) {
		if rv.IsNil() {
			return value.Null(), nil
		}
		return elemEnc(rv.Elem())
	}
}

func interfaceEnc(rv reflect.Value) (value.Value, error) {
	if rv.IsNil() {
		return value.Null(), nil
	}
	elem := rv.Elem()
	return encoderForType(elem.Type())(elem)
}

// ================================
// Struct Encoder
// ================================

// structField holds pre-computed info for a single struct field.
type structField struct {
	index     int
	name      string
	encoder   encoderFunc
	omitEmpty bool
	emptyFn   func(reflect.Value) bool
}

// buildStructEncoder emits fields in declaration order.
func buildStructEncoder(t reflect.Type) encoderFunc {
	var fields []structField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}

		info := getFieldInfo(sf)
		if info.skip {
			continue
		}

		f := structField{
			index:     i,
			name:      info.name,
			encoder:   encoderForType(sf.Type),
			omitEmpty: info.omitEmpty,
		}
		if info.omitEmpty {
			f.emptyFn = emptyFuncForType(sf.Type)
		}
		fields = append(fields, f)
	}

	return func(rv reflect.Value) (value.Value, error) {
		obj := value.NewObjectCap(len(fields))
		for i := range fields {
			f := &fields[i]
			fv := rv.Field(f.index)
			if f.omitEmpty && f.emptyFn(fv) {
				continue
			}
			v, err := f.encoder(fv)
			if err != nil {
				return value.Value{}, fmt.Errorf("in value for key %q: %w", f.name, err)
			}
			obj.Set(f.name, v)
		}
		return value.ObjectValue(obj), nil
	}
}

// ================================
// Map Encoder
// ================================

// mapKV holds a key-value pair for sorted map encoding.
type mapKV struct {
	key string
	val reflect.Value
}

// buildMapEncoder emits entries sorted by key. Only string-kinded keys are
// supported.
func buildMapEncoder(t reflect.Type) encoderFunc {
	if t.Key().Kind() != reflect.String {
		return func(reflect.Value) (value.Value, error) {
			return value.Value{}, errs.NewSerialization("unsupported map key type %s", t.Key())
		}
	}
	valEnc := encoderForType(t.Elem())

	return func(rv reflect.Value) (value.Value, error) {
		if rv.IsNil() {
			return value.Null(), nil
		}

		pairs := make([]mapKV, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, mapKV{key: iter.Key().String(), val: iter.Value()})
		}
		sort.Slice(pairs, func(i, j int) bool {
			return pairs[i].key < pairs[j].key
		})

		obj := value.NewObjectCap(len(pairs))
		for _, kv := range pairs {
			v, err := valEnc(kv.val)
			if err != nil {
				return value.Value{}, fmt.Errorf("in value for key %q: %w", kv.key, err)
			}
			obj.Set(kv.key, v)
		}
		return value.ObjectValue(obj), nil
	}
}

// ================================
// Slice / Array Encoders
// ================================

func buildSliceEncoder(t reflect.Type) encoderFunc {
	elems := buildArrayEncoder(t)
	return func(rv reflect.Value) (value.Value, error) {
		if rv.IsNil() {
			return value.Null(), nil
		}
		return elems(rv)
	}
}

func buildArrayEncoder(t reflect.Type) encoderFunc {
	elemEnc := encoderForType(t.Elem())
	return func(rv reflect.Value) (value.Value, error) {
		n := rv.Len()
		items := make([]value.Value, n)
		for i := 0; i < n; i++ {
			v, err := elemEnc(rv.Index(i))
			if err != nil {
				return value.Value{}, fmt.Errorf("in array item %d: %w", i, err)
			}
			items[i] = v
		}
		return value.Array(items...), nil
	}
}

// ================================
// Error Encoder
// ================================

func unsupportedEnc(t reflect.Type) encoderFunc {
	return func(reflect.Value) (value.Value, error) {
		return value.Value{}, errs.NewSerialization("unsupported type %s", t)
	}
}
