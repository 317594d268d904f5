package bind

import (
	"fmt"
	"reflect"
	"strings"

	perrors "github.com/pkg/errors"
)

// Func is a function with a fixed list of bound arguments. It is created by New or Make and
// is immutable. Calling a Func merges the call-site arguments into the bound arguments and calls
// the function with the result.
//
// A Func may be called from multiple goroutines if the wrapped function allows it.
type Func struct {
	fn     reflect.Value
	args   Args
	params []reflect.Type // Parameter type of each bound argument.
	arity  int
	name   string // Set for methods adapted by MakeMethod.
}

// New returns a Func that calls fn with args. Any argument of type Placeholder is filled in from
// the call site. New panics if fn is not a function or args do not fit its parameters; see Make.
func New(fn any, args ...any) *Func {
	f, err := Make(fn, args...)
	exit(err)
	return f
}

// Make returns a Func that calls fn with args, or an error if they do not fit.
//
// fn must be a non-nil function. There must be exactly one argument per parameter of fn, or at
// least one per non-variadic parameter if fn is variadic. Each literal argument must be
// assignable to its parameter; values are never converted. Placeholders are checked when the
// Func is called. fn is not called by Make.
//
// Errors returned by Make carry a stack trace, printed with %+v.
func Make(fn any, args ...any) (f *Func, err error) {
	defer captureErr(&err)

	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, perrors.WithStack(fmt.Errorf("%w: %T", ErrNotFunc, fn))
	} else if fv.IsNil() {
		return nil, perrors.WithStack(fmt.Errorf("%w: nil %v", ErrNotFunc, fv.Type()))
	}

	bound := Capture(args...)
	params, err := paramTypes(fv.Type(), len(bound))
	if err != nil {
		return nil, perrors.WithStack(err)
	}

	for i, arg := range bound {
		if arg.IsPlaceholder() {
			continue
		}
		if _, ok := valueFor(arg.val, params[i]); !ok {
			return nil, perrors.WithStack(&TypeError{Index: i, Want: params[i], Got: typeOfValue(arg.val)})
		}
	}

	return &Func{
		fn:     fv,
		args:   bound,
		params: params,
		arity:  bound.Arity(),
	}, nil
}

// paramTypes returns the type of each of the n parameters fn would be called with.
func paramTypes(ft reflect.Type, n int) ([]reflect.Type, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if n < numIn-1 {
			return nil, fmt.Errorf("%w: %v needs at least %d, got %d", ErrArgCount, ft, numIn-1, n)
		}
	} else if n != numIn {
		return nil, fmt.Errorf("%w: %v needs %d, got %d", ErrArgCount, ft, numIn, n)
	}

	params := make([]reflect.Type, n)
	for i := range params {
		if ft.IsVariadic() && i >= numIn-1 {
			params[i] = ft.In(numIn - 1).Elem()
		} else {
			params[i] = ft.In(i)
		}
	}
	return params, nil
}

// Call merges args into f's bound arguments and calls f's function with the result. The function's
// results are returned in order; an error result is returned like any other value.
//
// Call panics if a placeholder refers past the end of args (an *ArityError) or a call-site value
// cannot be assigned to the parameter its placeholder is bound to (a *TypeError). In both cases the
// function is not called. A panic raised by the function itself is not recovered.
func (f *Func) Call(args ...any) []any {
	out := f.fn.Call(f.in(args))
	if len(out) == 0 {
		return nil
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results
}

// TryCall is Call, but returns arity and type violations as errors instead of panicking.
// Panics raised by the function are not recovered.
func (f *Func) TryCall(args ...any) (results []any, err error) {
	in := f.tryIn(args, &err)
	if err != nil {
		return nil, err
	}
	out := f.fn.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	results = make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

func (f *Func) tryIn(args []any, err *error) (in []reflect.Value) {
	defer captureErr(err)
	return f.in(args)
}

// in merges args into the bound arguments and converts them to call parameters.
func (f *Func) in(args []any) []reflect.Value {
	merged := Merge(f.args, args)
	in := make([]reflect.Value, len(merged))
	for i, v := range merged {
		rv, ok := valueFor(v, f.params[i])
		if !ok {
			exit(&TypeError{
				Index:    i,
				Position: f.args[i].pos,
				Want:     f.params[i],
				Got:      typeOfValue(v),
			})
		}
		in[i] = rv
	}
	return in
}

// Arity returns the minimum number of call-site arguments f must be called with.
func (f *Func) Arity() int {
	return f.arity
}

// Len returns the number of bound arguments.
func (f *Func) Len() int {
	return len(f.args)
}

// Args returns a copy of f's bound arguments.
func (f *Func) Args() Args {
	return f.args.Clone()
}

// Type returns the type of the wrapped function.
func (f *Func) Type() reflect.Type {
	return f.fn.Type()
}

func (f *Func) String() string {
	var out strings.Builder
	out.WriteString("bind(")
	if f.name != "" {
		out.WriteString(f.name)
	} else {
		out.WriteString(funcName(f.fn))
	}
	for _, a := range f.args {
		out.WriteString(", ")
		out.WriteString(a.String())
	}
	out.WriteByte(')')
	return out.String()
}
