package bind

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Arg is a single bound argument: either a literal value or a Placeholder.
type Arg struct {
	val any
	pos Placeholder
}

// Literal returns an Arg holding v. A Placeholder passed to Literal is kept as a plain value and
// is not substituted at call time.
func Literal(v any) Arg {
	return Arg{val: v}
}

// Hole returns an Arg for the placeholder p. It panics if p is not a valid position.
func Hole(p Placeholder) Arg {
	if !p.valid() {
		exitf("%w %d", ErrPlaceholder, int(p))
	}
	return Arg{pos: p}
}

// IsPlaceholder reports whether a is a placeholder.
func (a Arg) IsPlaceholder() bool {
	return a.pos.valid()
}

// Placeholder returns the placeholder of a, or 0 if a is a literal.
func (a Arg) Placeholder() Placeholder {
	return a.pos
}

// Value returns the literal value of a, or nil if a is a placeholder.
func (a Arg) Value() any {
	return a.val
}

func (a Arg) String() string {
	if a.IsPlaceholder() {
		return a.pos.String()
	}
	switch v := a.val.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

// Args is an ordered sequence of bound arguments.
type Args []Arg

// Capture converts a bind argument list into Args. Every argument of type Placeholder becomes a
// placeholder; anything else becomes a literal holding a copy of the value.
func Capture(args ...any) Args {
	bound := make(Args, len(args))
	for i, arg := range args {
		if p, ok := arg.(Placeholder); ok {
			bound[i] = Hole(p)
			continue
		}
		bound[i] = Literal(arg)
	}
	return bound
}

// Arity returns the highest placeholder position in args, or 0 if there are no placeholders.
// This is the minimum number of call-site arguments a merge with args requires.
func (args Args) Arity() int {
	n := 0
	for _, a := range args {
		if p := a.pos.Position(); p > n {
			n = p
		}
	}
	return n
}

// Placeholders returns the distinct placeholders in args in ascending order.
func (args Args) Placeholders() []Placeholder {
	var ps []Placeholder
	for _, a := range args {
		if a.IsPlaceholder() && !slices.Contains(ps, a.pos) {
			ps = append(ps, a.pos)
		}
	}
	slices.Sort(ps)
	return ps
}

// Clone returns a copy of args.
func (args Args) Clone() Args {
	return slices.Clone(args)
}

func (args Args) String() string {
	var out strings.Builder
	out.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(a.String())
	}
	out.WriteByte(')')
	return out.String()
}
