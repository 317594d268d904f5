package bind

import (
	"fmt"
	"reflect"

	perrors "github.com/pkg/errors"
)

// Method adapts a method expression and a receiver into a plain function. Given method of type
// func(R, A1, ..., An) (Out...) and recv assignable to R, Method returns a func(A1, ..., An)
// (Out...) that calls method with recv as its first argument.
//
// The receiver is held as given: if recv is a pointer, every call goes through that pointer, and
// the caller must keep the pointed-to value alive and consistent for as long as the function is
// used. A method value (recv.M) is already such a function and can be passed to New directly.
//
// Method panics if method is not a function with at least one parameter or recv does not fit it.
func Method(method any, recv any) any {
	fn, err := makeMethod(method, recv)
	exit(err)
	return fn.Interface()
}

// NewMethod is New(Method(method, recv), args...).
func NewMethod(method any, recv any, args ...any) *Func {
	f, err := MakeMethod(method, recv, args...)
	exit(err)
	return f
}

// MakeMethod is Make(Method(method, recv), args...), returning an error if method, recv, or args
// do not fit. The returned Func is named after method rather than the adapter.
func MakeMethod(method any, recv any, args ...any) (*Func, error) {
	fn, err := makeMethod(method, recv)
	if err != nil {
		return nil, perrors.WithStack(err)
	}
	f, err := Make(fn.Interface(), args...)
	if err != nil {
		return nil, err
	}
	f.name = funcName(reflect.ValueOf(method))
	return f, nil
}

func makeMethod(method any, recv any) (reflect.Value, error) {
	mv := reflect.ValueOf(method)
	if mv.Kind() != reflect.Func || mv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: method %T", ErrNotFunc, method)
	}

	mt := mv.Type()
	if mt.NumIn() == 0 || (mt.IsVariadic() && mt.NumIn() == 1) {
		return reflect.Value{}, fmt.Errorf("%w: %v has no receiver parameter", ErrArgCount, mt)
	}

	rv, ok := valueFor(recv, mt.In(0))
	if !ok {
		return reflect.Value{}, &TypeError{Index: -1, Want: mt.In(0), Got: typeOfValue(recv)}
	}

	in := make([]reflect.Type, mt.NumIn()-1)
	for i := range in {
		in[i] = mt.In(i + 1)
	}
	out := make([]reflect.Type, mt.NumOut())
	for i := range out {
		out[i] = mt.Out(i)
	}

	variadic := mt.IsVariadic()
	ft := reflect.FuncOf(in, out, variadic)
	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		args = append([]reflect.Value{rv}, args...)
		if variadic {
			return mv.CallSlice(args)
		}
		return mv.Call(args)
	}), nil
}

// MethodByName returns the method value of recv named name, a function with the receiver already
// applied. It returns an error wrapping ErrMethodNotFound if recv has no such exported method.
func MethodByName(recv any, name string) (any, error) {
	rv := reflect.ValueOf(recv)
	if !rv.IsValid() {
		return nil, perrors.WithStack(fmt.Errorf("%w: %s on nil receiver", ErrMethodNotFound, name))
	}
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, perrors.WithStack(fmt.Errorf("%w: %v has no method %s", ErrMethodNotFound, rv.Type(), name))
	}
	return m.Interface(), nil
}
