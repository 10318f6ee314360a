package jyaml

import (
	"strconv"
	"sync"

	"github.com/shapestone/shape-jyaml/pkg/value"
)

// autoFlowLimit is the widest flow rendering StyleAuto keeps on one line
// when pretty printing.
const autoFlowLimit = 60

// bufPool pools output buffers. Buffers larger than 64KB are dropped.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 1024)
		return &b
	},
}

func getBuf() *[]byte {
	bp := bufPool.Get().(*[]byte)
	*bp = (*bp)[:0]
	return bp
}

func putBuf(bp *[]byte) {
	if cap(*bp) <= 64*1024 {
		bufPool.Put(bp)
	}
}

// Serialize renders v with DefaultSerializeOptions.
//
// Example:
//
//	text, err := jyaml.Serialize(v)
func Serialize(v value.Value) (string, error) {
	return SerializeWithOptions(v, DefaultSerializeOptions())
}

// SerializeWithOptions renders v according to opts.
//
// The output never ends with a line break. NaN and infinite floats cannot be
// represented and are reported as Serialization errors. An indent outside
// 0..8 is clamped; SerializeOptions.Validate reports it instead.
func SerializeWithOptions(v value.Value, opts SerializeOptions) (string, error) {
	b, err := serializeBytes(v, opts)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// serializeBytes renders v into a fresh slice.
func serializeBytes(v value.Value, opts SerializeOptions) ([]byte, error) {
	bp := getBuf()
	defer putBuf(bp)

	s := &serializer{opts: opts.effective()}
	s.nl = s.opts.LineEnding.lineBreak()

	buf, err := s.appendRoot(*bp, v)
	if err != nil {
		return nil, err
	}
	*bp = buf

	// Must copy since buffer will be returned to pool
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// serializer holds the resolved options of one call.
type serializer struct {
	opts SerializeOptions
	nl   string
}

func (s *serializer) appendRoot(buf []byte, v value.Value) ([]byte, error) {
	if !s.useBlock(v, 0) {
		return s.appendFlow(buf, v)
	}
	if arr, ok := v.AsArray(); ok {
		return s.appendBlockArray(buf, arr, 0)
	}
	obj, _ := v.AsObject()
	return s.appendBlockObject(buf, obj, 0)
}

// useBlock decides whether the collection v, nested level deep, is written
// in block style.
func (s *serializer) useBlock(v value.Value, level int) bool {
	if !v.IsCollection() || v.Len() == 0 {
		return false
	}
	if level > 0 && s.opts.Indent == 0 {
		return false
	}

	switch s.opts.Style {
	case StyleFlow:
		return false
	case StyleBlock:
		return true
	}

	// StyleAuto
	if !s.opts.Pretty {
		return false
	}
	if hasCollectionChild(v) {
		return true
	}
	return s.flowWidth(v) > autoFlowLimit
}

func hasCollectionChild(v value.Value) bool {
	if arr, ok := v.AsArray(); ok {
		for _, item := range arr {
			if item.IsCollection() {
				return true
			}
		}
		return false
	}
	found := false
	obj, _ := v.AsObject()
	obj.Range(func(_ string, item value.Value) bool {
		found = item.IsCollection()
		return !found
	})
	return found
}

// flowWidth returns the byte length of v in flow style, or a value above
// the limit when v cannot be rendered.
func (s *serializer) flowWidth(v value.Value) int {
	bp := getBuf()
	defer putBuf(bp)
	buf, err := s.appendFlow(*bp, v)
	*bp = buf
	if err != nil {
		return autoFlowLimit + 1
	}
	return len(buf)
}

// appendBlockObject writes entries of obj, one per line. The cursor is
// already at column indent for the first entry.
func (s *serializer) appendBlockObject(buf []byte, obj *value.Object, indent int) ([]byte, error) {
	var err error
	for i, key := range s.keys(obj) {
		if i > 0 {
			buf = s.appendNewline(buf, indent)
		}
		item, _ := obj.Get(key)
		buf = s.appendString(buf, key)
		buf = append(buf, ':')

		if s.useBlock(item, 1) {
			child := indent + s.opts.Indent
			buf = s.appendNewline(buf, child)
			if buf, err = s.appendBlock(buf, item, child); err != nil {
				return buf, err
			}
			continue
		}

		buf = append(buf, ' ')
		if buf, err = s.appendFlow(buf, item); err != nil {
			return buf, err
		}
	}
	return buf, nil
}

// appendBlockArray writes "- " entries, one per line. Collection elements
// start right after the dash so their own entries align with it.
func (s *serializer) appendBlockArray(buf []byte, arr []value.Value, indent int) ([]byte, error) {
	var err error
	for i, item := range arr {
		if i > 0 {
			buf = s.appendNewline(buf, indent)
		}
		buf = append(buf, '-', ' ')

		if s.useBlock(item, 1) {
			if buf, err = s.appendBlock(buf, item, indent+2); err != nil {
				return buf, err
			}
			continue
		}
		if buf, err = s.appendFlow(buf, item); err != nil {
			return buf, err
		}
	}
	return buf, nil
}

func (s *serializer) appendBlock(buf []byte, v value.Value, indent int) ([]byte, error) {
	if arr, ok := v.AsArray(); ok {
		return s.appendBlockArray(buf, arr, indent)
	}
	obj, _ := v.AsObject()
	return s.appendBlockObject(buf, obj, indent)
}

// appendFlow writes v on a single line.
func (s *serializer) appendFlow(buf []byte, v value.Value) ([]byte, error) {
	var err error
	switch v.Kind() {
	case value.KindNull:
		return append(buf, "null"...), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return strconv.AppendBool(buf, b), nil
	case value.KindNumber:
		n, _ := v.AsNumber()
		if n.IsInteger() {
			return strconv.AppendInt(buf, n.Int64(), 10), nil
		}
		return appendFloat(buf, n.Float64())
	case value.KindString:
		str, _ := v.AsString()
		return s.appendString(buf, str), nil
	case value.KindArray:
		arr, _ := v.AsArray()
		buf = append(buf, '[')
		for i, item := range arr {
			if i > 0 {
				buf = append(buf, ',', ' ')
			}
			if buf, err = s.appendFlow(buf, item); err != nil {
				return buf, err
			}
		}
		return append(buf, ']'), nil
	case value.KindObject:
		obj, _ := v.AsObject()
		buf = append(buf, '{')
		for i, key := range s.keys(obj) {
			if i > 0 {
				buf = append(buf, ',', ' ')
			}
			item, _ := obj.Get(key)
			buf = s.appendString(buf, key)
			buf = append(buf, ':', ' ')
			if buf, err = s.appendFlow(buf, item); err != nil {
				return buf, err
			}
		}
		return append(buf, '}'), nil
	}
	return buf, nil
}

// appendString quotes str according to the quote style.
func (s *serializer) appendString(buf []byte, str string) []byte {
	switch s.opts.QuoteStyle {
	case QuoteSingle:
		if canSingleQuote(str, s.opts.EscapeUnicode) {
			return appendSingleQuoted(buf, str)
		}
	case QuoteAuto:
		if containsByte(str, '"') && canSingleQuote(str, s.opts.EscapeUnicode) {
			return appendSingleQuoted(buf, str)
		}
	}
	return appendDoubleQuoted(buf, str, s.opts.EscapeUnicode)
}

func (s *serializer) appendNewline(buf []byte, indent int) []byte {
	buf = append(buf, s.nl...)
	for i := 0; i < indent; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

func (s *serializer) keys(obj *value.Object) []string {
	if s.opts.SortKeys {
		return obj.SortedKeys()
	}
	return obj.Keys()
}

func containsByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}
