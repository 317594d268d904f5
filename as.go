package bind

import (
	"fmt"
	"reflect"

	perrors "github.com/pkg/errors"
)

// As returns f as a function of type F. Calling the returned function is the same as calling f
// with its arguments as call-site arguments, so the result can be passed anywhere an F is
// expected, including to New.
//
// F must be a function type with at least f.Arity() parameters. Each parameter that a placeholder
// refers to must be assignable to the bound parameter, and each result of f's function must be
// assignable to the corresponding result of F. As panics otherwise; see TryAs.
func As[F any](f *Func) F {
	fn, err := TryAs[F](f)
	exit(err)
	return fn
}

// TryAs is As, but returns an error instead of panicking if f does not fit F.
func TryAs[F any](f *Func) (fn F, err error) {
	ft := typeOf[F]()
	if ft.Kind() != reflect.Func {
		return fn, perrors.WithStack(fmt.Errorf("%w: %v", ErrNotFunc, ft))
	}
	if err := f.fits(ft); err != nil {
		return fn, perrors.WithStack(err)
	}

	wrapped := reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		if ft.IsVariadic() {
			in = spread(in)
		}
		args := make([]any, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}
		return f.fn.Call(f.in(args))
	})
	return wrapped.Interface().(F), nil
}

// fits checks that a function of type ft can forward its arguments and results to f.
func (f *Func) fits(ft reflect.Type) error {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		numIn--
	}
	if numIn < f.arity {
		return fmt.Errorf("%w: %v takes %d argument(s), %v needs %d", ErrArgCount, ft, numIn, f, f.arity)
	}

	for i, arg := range f.args {
		if !arg.IsPlaceholder() {
			continue
		}
		in := ft.In(arg.pos.Position() - 1)
		if !in.AssignableTo(f.params[i]) {
			return &TypeError{Index: i, Position: arg.pos, Want: f.params[i], Got: in}
		}
	}

	out := f.fn.Type()
	if ft.NumOut() != out.NumOut() {
		return fmt.Errorf("%w: %v returns %d result(s), %v returns %d", ErrNotFunc, ft, ft.NumOut(), f, out.NumOut())
	}
	for i := 0; i < out.NumOut(); i++ {
		if !out.Out(i).AssignableTo(ft.Out(i)) {
			return fmt.Errorf("%w: result %d of %v is %v, not %v", ErrNotFunc, i+1, f, out.Out(i), ft.Out(i))
		}
	}
	return nil
}

// spread expands a trailing variadic slice into individual values.
func spread(in []reflect.Value) []reflect.Value {
	n := len(in) - 1
	last := in[n]
	out := make([]reflect.Value, n, n+last.Len())
	copy(out, in[:n])
	for i := 0; i < last.Len(); i++ {
		out = append(out, last.Index(i))
	}
	return out
}
