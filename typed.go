package bind

// Slot is a typed bound argument: a literal of type T or a placeholder whose call-site value must
// be a T. Slots are made with Val or At; the Bind functions panic if given a zero Slot.
type Slot[T any] struct {
	arg Arg
	set bool
}

// Val returns a literal slot holding v.
func Val[T any](v T) Slot[T] {
	return Slot[T]{arg: Literal(v), set: true}
}

// At returns a slot filled in from the call-site argument at p.
func At[T any](p Placeholder) Slot[T] {
	return Slot[T]{arg: Hole(p), set: true}
}

// bound returns the Arg of s as the i-th bound argument.
func (s Slot[T]) bound(i int) Arg {
	if !s.set {
		exitf("%w %v in argument %d", ErrZeroSlot, typeOf[T](), i+1)
	}
	return s.arg
}

// Arg returns the untyped bound argument of s.
func (s Slot[T]) Arg() Arg {
	return s.arg
}

// Caller is the result of a typed bind. Its arguments are the call-site arguments.
type Caller[R any] func(args ...any) R

// Bind0 returns a Caller that calls f. It ignores its call-site arguments.
func Bind0[R any](f func() R) Caller[R] {
	return func(args ...any) R {
		return f()
	}
}

func Bind1[A, R any](f func(A) R, a Slot[A]) Caller[R] {
	bound := Args{a.bound(0)}
	return func(args ...any) R {
		m := Merge(bound, args)
		return f(cast[A](bound, m, 0))
	}
}

func Bind2[A, B, R any](f func(A, B) R, a Slot[A], b Slot[B]) Caller[R] {
	bound := Args{a.bound(0), b.bound(1)}
	return func(args ...any) R {
		m := Merge(bound, args)
		return f(cast[A](bound, m, 0), cast[B](bound, m, 1))
	}
}

func Bind3[A, B, C, R any](f func(A, B, C) R, a Slot[A], b Slot[B], c Slot[C]) Caller[R] {
	bound := Args{a.bound(0), b.bound(1), c.bound(2)}
	return func(args ...any) R {
		m := Merge(bound, args)
		return f(cast[A](bound, m, 0), cast[B](bound, m, 1), cast[C](bound, m, 2))
	}
}

func Bind4[A, B, C, D, R any](f func(A, B, C, D) R, a Slot[A], b Slot[B], c Slot[C], d Slot[D]) Caller[R] {
	bound := Args{a.bound(0), b.bound(1), c.bound(2), d.bound(3)}
	return func(args ...any) R {
		m := Merge(bound, args)
		return f(cast[A](bound, m, 0), cast[B](bound, m, 1), cast[C](bound, m, 2), cast[D](bound, m, 3))
	}
}

func Bind5[A, B, C, D, E, R any](f func(A, B, C, D, E) R, a Slot[A], b Slot[B], c Slot[C], d Slot[D], e Slot[E]) Caller[R] {
	bound := Args{a.bound(0), b.bound(1), c.bound(2), d.bound(3), e.bound(4)}
	return func(args ...any) R {
		m := Merge(bound, args)
		return f(cast[A](bound, m, 0), cast[B](bound, m, 1), cast[C](bound, m, 2), cast[D](bound, m, 3), cast[E](bound, m, 4))
	}
}

// cast returns merged[i] as a T. Literals always hold a T; placeholder values are checked.
func cast[T any](bound Args, merged []any, i int) T {
	v := merged[i]
	if t, ok := v.(T); ok {
		return t
	}
	want := typeOf[T]()
	if v == nil && isNilable(want) {
		var zero T
		return zero
	}
	exit(&TypeError{Index: i, Position: bound[i].pos, Want: want, Got: typeOfValue(v)})
	panic("unreachable")
}

// Method0 returns a function that calls m with recv.
func Method0[T, R any](m func(T) R, recv T) func() R {
	return func() R { return m(recv) }
}

// Method1 returns a function that calls m with recv and its argument.
func Method1[T, A, R any](m func(T, A) R, recv T) func(A) R {
	return func(a A) R { return m(recv, a) }
}

func Method2[T, A, B, R any](m func(T, A, B) R, recv T) func(A, B) R {
	return func(a A, b B) R { return m(recv, a, b) }
}

func Method3[T, A, B, C, R any](m func(T, A, B, C) R, recv T) func(A, B, C) R {
	return func(a A, b B, c C) R { return m(recv, a, b, c) }
}

func Method4[T, A, B, C, D, R any](m func(T, A, B, C, D) R, recv T) func(A, B, C, D) R {
	return func(a A, b B, c C, d D) R { return m(recv, a, b, c, d) }
}
