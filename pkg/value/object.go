package value

import "sort"

// Object is a string-keyed mapping that remembers insertion order.
// Keys are unique; setting an existing key replaces its value in place.
type Object struct {
	keys    []string
	entries map[string]Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{entries: make(map[string]Value)}
}

// NewObjectCap returns an empty object sized for n entries.
func NewObjectCap(n int) *Object {
	return &Object{
		keys:    make([]string, 0, n),
		entries: make(map[string]Value, n),
	}
}

// Set stores v under key and reports whether an existing entry was replaced.
func (o *Object) Set(key string, v Value) bool {
	if _, ok := o.entries[key]; ok {
		o.entries[key] = v
		return true
	}
	o.keys = append(o.keys, key)
	o.entries[key] = v
	return false
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.entries[key]; !ok {
		return false
	}
	delete(o.entries, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// SortedKeys returns the keys in ascending byte order.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.entries[k]) {
			return
		}
	}
}
