package runtime

import (
	"errors"
	"testing"
)

func TestNarrowingAccessors(t *testing.T) {
	if s, ok := AsString(String("a")); !ok || s != "a" {
		t.Fatalf("AsString failed")
	}
	if _, ok := AsString(Integer(1)); ok {
		t.Fatalf("AsString must reject integers")
	}
	if i, ok := AsInteger(Integer(-4)); !ok || i != -4 {
		t.Fatalf("AsInteger failed")
	}
	if _, ok := AsInteger(Float(1)); ok {
		t.Fatalf("AsInteger must not coerce floats")
	}
	if f, ok := AsFloat(Float(0.5)); !ok || f != 0.5 {
		t.Fatalf("AsFloat failed")
	}
	if b, ok := AsBool(Bool(true)); !ok || !b {
		t.Fatalf("AsBool failed")
	}
	if _, ok := AsBool(None); ok {
		t.Fatalf("AsBool must not treat none as false")
	}
	if _, ok := AsList(NewObject(nil)); ok {
		t.Fatalf("AsList must reject objects")
	}
	if _, ok := AsObject(NewList()); ok {
		t.Fatalf("AsObject must reject lists")
	}
	if !IsNone(None) || IsNone(Bool(false)) {
		t.Fatalf("IsNone mismatch")
	}
}

func TestExpectReturnsTypeError(t *testing.T) {
	_, err := ExpectBool(String("yes"))
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *TypeError, got %T", err)
	}
	if typeErr.Expected != KindBool || typeErr.Got != "string" {
		t.Fatalf("unexpected type error %#v", typeErr)
	}
	if _, err := ExpectList(NewList(Integer(1))); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := ExpectObject(nil); err == nil {
		t.Fatalf("expected error for nil value")
	}
}

func TestListHandlesShareStore(t *testing.T) {
	source := []Value{Integer(1), Integer(2)}
	list := NewList(source...)
	source[0] = Integer(99)

	first, _ := list.At(0)
	if !Equal(first, Integer(1)) {
		t.Fatalf("list must own its store, got %#v", first)
	}

	var alias Value = list
	again, _ := AsList(alias)
	if again != list {
		t.Fatalf("copying the value must copy only the handle")
	}

	out := list.Elements()
	out[1] = Integer(0)
	second, _ := list.At(1)
	if !Equal(second, Integer(2)) {
		t.Fatalf("Elements must not expose the backing store")
	}
	if _, ok := list.At(5); ok {
		t.Fatalf("out of range access must fail")
	}
}

func TestObjectKeysAndInspect(t *testing.T) {
	obj := NewObject(map[string]Value{"b": Integer(2), "a": String("x"), "c": NewList(Bool(true), None)})
	keys := obj.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if got := Inspect(obj); got != `{a: "x", b: 2, c: [true, none]}` {
		t.Fatalf("unexpected rendering %s", got)
	}
	if got := ToString(String("bare")); got != "bare" {
		t.Fatalf("unexpected rendering %s", got)
	}
	if got := Inspect(Float(2.5)); got != "2.5" {
		t.Fatalf("unexpected float rendering %s", got)
	}
}

func TestEqual(t *testing.T) {
	a := NewList(Integer(1), NewObject(map[string]Value{"k": String("v")}))
	b := NewList(Integer(1), NewObject(map[string]Value{"k": String("v")}))
	if !Equal(a, b) {
		t.Fatalf("structurally equal lists must compare equal")
	}
	if Equal(a, NewList(Integer(1))) {
		t.Fatalf("lists of different length are not equal")
	}
	if Equal(Integer(1), Float(1)) {
		t.Fatalf("different kinds are not equal")
	}
	if Kind(42).String() != "unknown_kind_42" {
		t.Fatalf("unexpected kind name")
	}
}
