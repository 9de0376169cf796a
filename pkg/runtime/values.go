package runtime

import (
	"fmt"
	"sort"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindList
	KindObject
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	case KindNone:
		return "none"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. The set of
// implementations is closed to this package.
type Value interface {
	Kind() Kind
	isValue()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }
func (StringValue) isValue()   {}

type IntegerValue struct {
	Val int32
}

func (IntegerValue) Kind() Kind { return KindInteger }
func (IntegerValue) isValue()   {}

type FloatValue struct {
	Val float32
}

func (FloatValue) Kind() Kind { return KindFloat }
func (FloatValue) isValue()   {}

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()   {}

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }
func (NoneValue) isValue()   {}

//-----------------------------------------------------------------------------
// Shared containers
//-----------------------------------------------------------------------------

// ListValue is always handled through a pointer: copying the Value copies the
// handle and every copy observes the same backing slice.
type ListValue struct {
	elements []Value
}

func (*ListValue) Kind() Kind { return KindList }
func (*ListValue) isValue()   {}

func (l *ListValue) Len() int { return len(l.elements) }

func (l *ListValue) At(idx int) (Value, bool) {
	if idx < 0 || idx >= len(l.elements) {
		return nil, false
	}
	return l.elements[idx], true
}

// Elements returns a copy of the element slice; the backing store stays
// owned by the list.
func (l *ListValue) Elements() []Value {
	out := make([]Value, len(l.elements))
	copy(out, l.elements)
	return out
}

// ObjectValue maps names to values. Iteration order is unspecified.
type ObjectValue struct {
	fields map[string]Value
}

func (*ObjectValue) Kind() Kind { return KindObject }
func (*ObjectValue) isValue()   {}

func (o *ObjectValue) Len() int { return len(o.fields) }

func (o *ObjectValue) Get(name string) (Value, bool) {
	v, ok := o.fields[name]
	return v, ok
}

// Keys returns the field names in sorted order.
func (o *ObjectValue) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//-----------------------------------------------------------------------------
// Constructors
//-----------------------------------------------------------------------------

// None is the unit value.
var None Value = NoneValue{}

func String(s string) Value { return StringValue{Val: s} }

func Integer(i int32) Value { return IntegerValue{Val: i} }

func Float(f float32) Value { return FloatValue{Val: f} }

func Bool(b bool) Value { return BoolValue{Val: b} }

// NewList allocates one backing store holding elements.
func NewList(elements ...Value) *ListValue {
	store := make([]Value, len(elements))
	copy(store, elements)
	return &ListValue{elements: store}
}

// NewObject allocates one backing store holding fields. The map is copied so
// later writes by the caller do not leak into the object.
func NewObject(fields map[string]Value) *ObjectValue {
	store := make(map[string]Value, len(fields))
	for k, v := range fields {
		store[k] = v
	}
	return &ObjectValue{fields: store}
}

//-----------------------------------------------------------------------------
// Narrowing
//-----------------------------------------------------------------------------

func AsString(v Value) (string, bool) {
	s, ok := v.(StringValue)
	return s.Val, ok
}

func AsInteger(v Value) (int32, bool) {
	i, ok := v.(IntegerValue)
	return i.Val, ok
}

func AsFloat(v Value) (float32, bool) {
	f, ok := v.(FloatValue)
	return f.Val, ok
}

func AsBool(v Value) (bool, bool) {
	b, ok := v.(BoolValue)
	return b.Val, ok
}

func AsList(v Value) (*ListValue, bool) {
	l, ok := v.(*ListValue)
	return l, ok && l != nil
}

func AsObject(v Value) (*ObjectValue, bool) {
	o, ok := v.(*ObjectValue)
	return o, ok && o != nil
}

func IsNone(v Value) bool {
	_, ok := v.(NoneValue)
	return ok
}

// The Expect helpers narrow or fail with a *TypeError.

func ExpectString(v Value) (string, error) {
	if s, ok := AsString(v); ok {
		return s, nil
	}
	return "", newTypeError(KindString, v)
}

func ExpectInteger(v Value) (int32, error) {
	if i, ok := AsInteger(v); ok {
		return i, nil
	}
	return 0, newTypeError(KindInteger, v)
}

func ExpectFloat(v Value) (float32, error) {
	if f, ok := AsFloat(v); ok {
		return f, nil
	}
	return 0, newTypeError(KindFloat, v)
}

func ExpectBool(v Value) (bool, error) {
	if b, ok := AsBool(v); ok {
		return b, nil
	}
	return false, newTypeError(KindBool, v)
}

func ExpectList(v Value) (*ListValue, error) {
	if l, ok := AsList(v); ok {
		return l, nil
	}
	return nil, newTypeError(KindList, v)
}

func ExpectObject(v Value) (*ObjectValue, error) {
	if o, ok := AsObject(v); ok {
		return o, nil
	}
	return nil, newTypeError(KindObject, v)
}

func kindOf(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Kind().String()
}

// Equal reports structural equality. Containers are equal when they are the
// same handle or hold equal contents.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case StringValue, IntegerValue, FloatValue, BoolValue, NoneValue:
		return a == b
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		for idx := range av.elements {
			if !Equal(av.elements[idx], bv.elements[idx]) {
				return false
			}
		}
		return true
	case *ObjectValue:
		bv, ok := b.(*ObjectValue)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		if av.Len() != bv.Len() {
			return false
		}
		for k, v := range av.fields {
			other, ok := bv.fields[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
