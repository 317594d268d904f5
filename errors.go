package bind

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	perrors "github.com/pkg/errors"
)

var (
	ErrNotFunc        = errors.New("not a function")
	ErrArgCount       = errors.New("wrong number of bound arguments")
	ErrMethodNotFound = errors.New("method not found")
	ErrPlaceholder    = errors.New("invalid placeholder position")
	ErrZeroSlot       = errors.New("zero Slot")
)

// ArityError is raised when a placeholder refers to a call-site argument that was not supplied.
type ArityError struct {
	Position Placeholder // Position is the placeholder that could not be resolved.
	Given    int         // Given is the number of call-site arguments supplied.
}

func (e *ArityError) Error() string {
	return "placeholder " + e.Position.String() + " out of range: " +
		strconv.Itoa(e.Given) + " call-site argument(s) given"
}

// TypeError is raised when a value cannot be assigned to the parameter it is bound to.
// Index is the zero-based parameter index of the target function, or -1 for a method receiver.
// Position is set if the value came from a placeholder.
type TypeError struct {
	Index    int
	Position Placeholder
	Want     reflect.Type
	Got      reflect.Type
}

func (e *TypeError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.String()
	}
	var what string
	switch {
	case e.Index < 0:
		what = "receiver"
	case e.Position > 0:
		what = fmt.Sprintf("argument %d (%v)", e.Index+1, e.Position)
	default:
		what = fmt.Sprintf("argument %d", e.Index+1)
	}
	return fmt.Sprintf("cannot use %s as %v in %s", got, e.Want, what)
}

type failure struct {
	err error
}

var _ error = (*failure)(nil)

func (f *failure) Unwrap() error {
	return f.err
}

func (f *failure) Error() string {
	return fmt.Sprintf("bind: %v", f.err)
}

func (f *failure) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "bind: %+v", f.err)
		return
	}
	fmt.Fprint(s, f.Error())
}

type stackTracer interface {
	StackTrace() perrors.StackTrace
}

func exit(err error) {
	if err == nil {
		return
	}
	if _, ok := err.(stackTracer); !ok {
		err = perrors.WithStack(err)
	}
	panic(&failure{err: err})
}

func exitf(format string, args ...any) {
	panic(&failure{err: perrors.WithStack(fmt.Errorf(format, args...))})
}

var badErrPtr = errors.New("passed nil *error to captureErr")

// captureErr recovers a failure raised by exit or exitf and stores it in *err.
// Any other panic is re-raised unchanged.
func captureErr(err *error) {
	if err == nil {
		panic(badErrPtr)
	}
	switch rc := recover().(type) {
	case nil:
	case *failure:
		if *err != nil {
			*err = errors.Join(*err, rc.err)
			return
		}
		*err = rc.err
	default:
		panic(rc)
	}
}
