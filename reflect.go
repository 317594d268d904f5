package bind

import (
	"reflect"
	"runtime"
	"strings"
)

// typeOf returns the reflect.Type of T. Unlike reflect.TypeOf, this also works for interface types.
func typeOf[T any]() reflect.Type {
	var t *T
	return reflect.TypeOf(t).Elem()
}

// isNilable returns whether values of type t can be set to nil.
func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface,
		reflect.Pointer,
		reflect.Chan,
		reflect.Func,
		reflect.Slice,
		reflect.Map,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// valueFor converts v to a reflect.Value usable as a parameter of type t.
// An untyped nil becomes the zero value of t if t is nilable.
func valueFor(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		if !isNilable(t) {
			return reflect.Value{}, false
		}
		return reflect.Zero(t), true
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return rv, true
}

func typeOfValue(v any) reflect.Type {
	if v == nil {
		return nil
	}
	return reflect.TypeOf(v)
}

// funcName returns a short name for the function fn, such as "strings.ToUpper" or "main.add.func1".
func funcName(fn reflect.Value) string {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return "<nil>"
	}
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return fn.Type().String()
	}
	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
