package jyaml

import (
	"fmt"

	"github.com/shapestone/shape-jyaml/pkg/value"
)

// ValueToInterface converts a value.Value to native Go types.
//
// Converts:
//   - Null → nil
//   - Bool → bool
//   - integer Number → int64, float Number → float64
//   - String → string
//   - Array → []interface{}
//   - Object → map[string]interface{}
//
// Example:
//
//	v, _ := jyaml.Parse(`{"name": "Alice", "tags": ["go", "jyaml"]}`)
//	data := jyaml.ValueToInterface(v)
//	// data is map[string]interface{}{"name": "Alice", "tags": []interface{}{"go", "jyaml"}}
func ValueToInterface(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return b
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n.IsInteger() {
			return n.Int64()
		}
		return n.Float64()
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindArray:
		items, _ := v.AsArray()
		arr := make([]interface{}, len(items))
		for i, item := range items {
			arr[i] = ValueToInterface(item)
		}
		return arr
	case value.KindObject:
		obj, _ := v.AsObject()
		m := make(map[string]interface{}, obj.Len())
		obj.Range(func(key string, item value.Value) bool {
			m[key] = ValueToInterface(item)
			return true
		})
		return m
	default:
		return nil
	}
}

// InterfaceToValue converts native Go types to a value.Value.
//
// The common shapes produced by ValueToInterface and encoding/json are
// converted directly; anything else goes through ToValue. Map keys are
// inserted in sorted order.
//
// Example:
//
//	v, err := jyaml.InterfaceToValue(map[string]interface{}{
//	    "name": "Alice",
//	    "tags": []interface{}{"go", "jyaml"},
//	})
func InterfaceToValue(v interface{}) (value.Value, error) {
	switch val := v.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return val, nil
	case string:
		return value.String(val), nil
	case bool:
		return value.Bool(val), nil
	case int:
		return value.Int(int64(val)), nil
	case int64:
		return value.Int(val), nil
	case float64:
		return ToValue(val)

	case []interface{}:
		items := make([]value.Value, len(val))
		for i, item := range val {
			iv, err := InterfaceToValue(item)
			if err != nil {
				return value.Value{}, fmt.Errorf("in array item %d: %w", i, err)
			}
			items[i] = iv
		}
		return value.Array(items...), nil

	case map[string]interface{}:
		entries := make(map[string]value.Value, len(val))
		for key, item := range val {
			iv, err := InterfaceToValue(item)
			if err != nil {
				return value.Value{}, fmt.Errorf("in value for key %q: %w", key, err)
			}
			entries[key] = iv
		}
		return value.ObjectOf(entries), nil

	default:
		return ToValue(v)
	}
}
