package script

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.spiff.io/bind"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrFuncNotFound  = errors.New("function not found")
	ErrDivideByZero  = errors.New("divide by zero")
	ErrNegativeCount = errors.New("negative count")
)

// Env maps function names to functions that lines may bind.
type Env map[string]any

// Names returns the names defined in env in sorted order.
func (env Env) Names() []string {
	names := maps.Keys(env)
	slices.Sort(names)
	return names
}

// Bind returns the bind of line's function with its bound arguments.
func (env Env) Bind(line *Line) (*bind.Func, error) {
	fn, ok := env[line.Fn]
	if !ok {
		return nil, fmt.Errorf("%v: %w: %s", line.Start, ErrFuncNotFound, line.Fn)
	}
	f, err := bind.Make(fn, line.Bound...)
	if err != nil {
		return nil, fmt.Errorf("%v: %s: %w", line.Start, line.Fn, err)
	}
	return f, nil
}

// Eval binds line's function and calls it with line's call-site arguments.
//
// If the function's last result is an error, it is removed from the results and returned as is.
func (env Env) Eval(line *Line) ([]any, error) {
	f, err := env.Bind(line)
	if err != nil {
		return nil, err
	}

	results, err := f.TryCall(line.Call...)
	if err != nil {
		return nil, fmt.Errorf("%v: %v: %w", line.Start, f, err)
	}

	n := len(results)
	if n == 0 || !returnsError(f) {
		return results, nil
	}
	if err, _ := results[n-1].(error); err != nil {
		return results[:n-1], err
	}
	return results[:n-1], nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func returnsError(f *bind.Func) bool {
	ft := f.Type()
	return ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
}

// Tally is a running total. Its Add method is exposed by Builtins to show method binding.
type Tally struct {
	Total int
}

func (t *Tally) Add(n int) int {
	t.Total += n
	return t.Total
}

// Builtins returns an Env with a small set of integer and string functions. Each call to Builtins
// returns a fresh Env with its own tally.
func Builtins() Env {
	tally := &Tally{}
	return Env{
		"add":    func(a, b int) int { return a + b },
		"sub":    func(a, b int) int { return a - b },
		"mul":    func(a, b int) int { return a * b },
		"div":    div,
		"neg":    func(a int) int { return -a },
		"concat": func(a, b string) string { return a + b },
		"join":   join,
		"repeat": repeat,
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"len":    func(s string) int { return len(s) },
		"tally":  bind.Method((*Tally).Add, tally),
	}
}

func div(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

func join(sep string, parts ...string) string {
	return strings.Join(parts, sep)
}

func repeat(s string, n int) (string, error) {
	if n < 0 {
		return "", ErrNegativeCount
	}
	return strings.Repeat(s, n), nil
}
