package bind

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func sub(a, b int) int { return a - b }

func join3(a, b, c string) string { return a + b + c }

func checkResults(t *testing.T, prefix string, got []any, want ...any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %#v; want %#v", prefix, got, want)
	}
}

func TestFuncAllLiterals(t *testing.T) {
	f := New(join3, "a", "b", "c")
	checkResults(t, "bind(join3, a, b, c)()", f.Call(), join3("a", "b", "c"))
	checkResults(t, "bind(join3, a, b, c)(x)", f.Call("x"), join3("a", "b", "c"))
	if f.Arity() != 0 || f.Len() != 3 {
		t.Errorf("Arity, Len = %d, %d; want 0, 3", f.Arity(), f.Len())
	}
}

func TestFuncIdentity(t *testing.T) {
	f := New(join3, P1, P2, P3)
	checkResults(t, "bind(join3, _1, _2, _3)(x, y, z)", f.Call("x", "y", "z"), join3("x", "y", "z"))
}

func TestFuncReorder(t *testing.T) {
	f := New(sub, P2, P1)
	checkResults(t, "bind(sub, _2, _1)(1, 10)", f.Call(1, 10), sub(10, 1))
}

func TestFuncRepeat(t *testing.T) {
	f := New(sub, P1, P1)
	checkResults(t, "bind(sub, _1, _1)(4)", f.Call(4), 0)

	f = New(join3, P1, "-", P1)
	checkResults(t, "bind(join3, _1, -, _1)(ab)", f.Call("ab"), "ab-ab")
}

func TestFuncMixed(t *testing.T) {
	f := New(sub, 10, P1)
	checkResults(t, "bind(sub, 10, _1)(3)", f.Call(3), 7)
	checkResults(t, "bind(sub, 10, _1)(-5)", f.Call(-5), 15)
}

func TestFuncIdentityBind(t *testing.T) {
	called := false
	f := New(func() { called = true })
	checkResults(t, "bind(fn)()", f.Call())
	if !called {
		t.Fatal("fn not called")
	}
}

func TestFuncCallCount(t *testing.T) {
	calls := 0
	count := func(n int) int {
		calls++
		return n * 2
	}

	f := New(count, P1)
	if calls != 0 {
		t.Fatalf("calls after New = %d; want 0", calls)
	}
	checkResults(t, "f(21)", f.Call(21), 42)
	if calls != 1 {
		t.Fatalf("calls after one Call = %d; want 1", calls)
	}
	checkResults(t, "f(1)", f.Call(1), 2)
	if calls != 2 {
		t.Fatalf("calls after two Calls = %d; want 2", calls)
	}
}

func TestFuncCopiesLiterals(t *testing.T) {
	type point struct{ X, Y int }
	p := point{1, 2}
	f := New(func(p point, dx int) point { p.X += dx; return p }, p, P1)
	p.X = 100

	checkResults(t, "f(1)", f.Call(1), point{2, 2})
	checkResults(t, "f(1)", f.Call(1), point{2, 2})
}

func TestFuncArityViolation(t *testing.T) {
	setlogf(t)
	calls := 0
	f := New(func(int) { calls++ }, P3)

	err := requireFailure[*ArityError](t, func() { f.Call() })
	if err.Position != P3 || err.Given != 0 {
		t.Errorf("err = %#v; want Position=_3 Given=0", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d time(s); want 0", calls)
	}

	_, tryErr := f.TryCall(1, 2)
	if !errors.As(tryErr, &err) {
		t.Fatalf("TryCall error = %v; want *ArityError", tryErr)
	}
	if calls != 0 {
		t.Errorf("fn called %d time(s); want 0", calls)
	}
}

func TestFuncCallTypeMismatch(t *testing.T) {
	setlogf(t)
	f := New(sub, 1, P1)

	err := requireFailure[*TypeError](t, func() { f.Call("1") })
	if err.Index != 1 || err.Position != P1 {
		t.Errorf("err = %#v; want Index=1 Position=_1", err)
	}
	if err.Want != reflect.TypeOf(0) || err.Got != reflect.TypeOf("") {
		t.Errorf("err types = %v, %v; want int, string", err.Want, err.Got)
	}
	const want = "cannot use string as int in argument 2 (_1)"
	if err.Error() != want {
		t.Errorf("Error() = %q; want %q", err.Error(), want)
	}

	// nil is not an int.
	if _, tryErr := f.TryCall(nil); !errors.As(tryErr, &err) {
		t.Fatalf("TryCall(nil) error = %v; want *TypeError", tryErr)
	}
}

func TestFuncNilForNilable(t *testing.T) {
	describe := func(p *int, err error) string {
		return fmt.Sprint(p == nil, err == nil)
	}
	f := New(describe, P1, nil)
	checkResults(t, "f(nil)", f.Call(nil), "true true")
	n := 1
	checkResults(t, "f(&n)", f.Call(&n), "false true")
}

func TestFuncInterfaceParam(t *testing.T) {
	f := New(fmt.Sprint, P1, " and ", P2)
	checkResults(t, "f(1, x)", f.Call(1, "x"), "1 and x")
}

func TestFuncVariadic(t *testing.T) {
	f := New(strings.Join, []string{"a", "b"}, P1)
	checkResults(t, "f(+)", f.Call("+"), "a+b")

	concat := func(sep string, parts ...string) string {
		return strings.Join(parts, sep)
	}
	f = New(concat, P1)
	checkResults(t, "concat(_1)(,)", f.Call(","), "")

	f = New(concat, "/", "usr", P2, P1)
	checkResults(t, "concat(/, usr, _2, _1)(bin, local)", f.Call("bin", "local"), "usr/local/bin")
}

var errBoom = errors.New("boom")

func TestFuncErrorPassesThrough(t *testing.T) {
	div := func(a, b int) (int, error) {
		if b == 0 {
			return 0, errBoom
		}
		return a / b, nil
	}
	f := New(div, P1, P2)
	checkResults(t, "f(6, 3)", f.Call(6, 3), 2, nil)

	out, err := f.TryCall(1, 0)
	if err != nil {
		t.Fatalf("TryCall() error = %v; want nil", err)
	}
	if out[1] != errBoom {
		t.Fatalf("TryCall() = %v; want error %v unchanged", out, errBoom)
	}
}

func TestFuncPanicPassesThrough(t *testing.T) {
	type sentinel struct{ n int }
	want := &sentinel{n: 1}
	f := New(func(int) { panic(want) }, P1)

	if rc := recovered(func() { f.Call(1) }); rc != want {
		t.Errorf("Call() panic = %#v; want %#v", rc, want)
	}
	if rc := recovered(func() { _, _ = f.TryCall(1) }); rc != want {
		t.Errorf("TryCall() panic = %#v; want %#v", rc, want)
	}
}

func TestMakeErrors(t *testing.T) {
	var nilFn func(int)
	cases := []struct {
		Name string
		Fn   any
		Args []any
		Err  error
		Type bool
	}{
		{Name: "NotFunc", Fn: 1, Err: ErrNotFunc},
		{Name: "Nil", Fn: nil, Err: ErrNotFunc},
		{Name: "NilFunc", Fn: nilFn, Args: []any{1}, Err: ErrNotFunc},
		{Name: "TooFew", Fn: sub, Args: []any{1}, Err: ErrArgCount},
		{Name: "TooMany", Fn: sub, Args: []any{1, 2, 3}, Err: ErrArgCount},
		{Name: "VariadicTooFew", Fn: fmt.Sprintf, Args: []any{}, Err: ErrArgCount},
		{Name: "LiteralType", Fn: sub, Args: []any{1, "2"}, Type: true},
		{Name: "NoCoercion", Fn: func(float64) {}, Args: []any{1}, Type: true},
		{Name: "NilLiteral", Fn: sub, Args: []any{nil, P1}, Type: true},
		{Name: "VariadicElemType", Fn: func(...int) {}, Args: []any{1, "2"}, Type: true},
		{Name: "InvalidPlaceholder", Fn: sub, Args: []any{Placeholder(0), 1}, Err: ErrPlaceholder},
		{Name: "NegativePlaceholder", Fn: sub, Args: []any{1, Placeholder(-1)}, Err: ErrPlaceholder},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			var (
				f   *Func
				err error
			)
			if p := recovered(func() { f, err = Make(c.Fn, c.Args...) }); p != nil {
				t.Fatalf("Make() panicked: %v", p)
			}
			if f != nil {
				t.Errorf("Make() = %v; want nil", f)
			}
			var typeErr *TypeError
			if c.Type && !errors.As(err, &typeErr) {
				t.Errorf("Make() error = %v; want *TypeError", err)
			} else if !c.Type && !errors.Is(err, c.Err) {
				t.Errorf("Make() error = %v; want %v", err, c.Err)
			}
			if !strings.Contains(fmt.Sprintf("%+v", err), "bind.Make") {
				t.Errorf("Make() error has no stack trace: %+v", err)
			}
			if recovered(func() { New(c.Fn, c.Args...) }) == nil {
				t.Error("New() did not panic")
			}
		})
	}
}

func TestFuncArgsIsCopy(t *testing.T) {
	f := New(sub, 1, P1)
	args := f.Args()
	args[0] = Literal(100)
	checkResults(t, "f(1)", f.Call(1), 0)
}

func TestFuncString(t *testing.T) {
	f := New(sub, 10, P1)
	if got, want := f.String(), "bind.sub, 10, _1)"; !strings.HasSuffix(got, want) || !strings.HasPrefix(got, "bind(") {
		t.Errorf("String() = %q; want bind(...%s", got, want)
	}
	if got := f.Type(); got != reflect.TypeOf(sub) {
		t.Errorf("Type() = %v; want %v", got, reflect.TypeOf(sub))
	}
}

func TestFuncConcurrentCalls(t *testing.T) {
	f := New(join3, P2, "-", P1)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b := fmt.Sprint(i), fmt.Sprint(i*2)
			got := f.Call(a, b)[0]
			if want := b + "-" + a; got != want {
				errs <- fmt.Sprintf("f(%s, %s) = %v; want %s", a, b, got, want)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}

func TestNestedBind(t *testing.T) {
	inner := As[func(int) int](New(sub, 100, P1))
	outer := New(inner, P2)
	checkResults(t, "outer(x, 1)", outer.Call("x", 1), 99)
}
