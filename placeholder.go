// Package bind implements partial application of Go functions with positional placeholders.
//
// A bind captures a function together with a list of arguments, where each argument is either a
// concrete value or a Placeholder. Calling the bind substitutes each placeholder with the call-site
// argument at its position and calls the function with the merged list:
//
//	sub := func(a, b int) int { return a - b }
//	rsub := bind.New(sub, bind.P2, bind.P1)
//	rsub.Call(1, 10) // => []any{9}
package bind

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Placeholder marks an argument that is filled in from the call site. Its value is the 1-based
// position of the call-site argument it stands for. The zero Placeholder is not valid.
type Placeholder int

// Placeholders for the first five call-site arguments. Use Nth for higher positions.
const (
	P1 Placeholder = iota + 1
	P2
	P3
	P4
	P5
)

// Nth returns the placeholder for the n-th call-site argument. It panics if n < 1.
func Nth[I constraints.Integer](n I) Placeholder {
	p := Placeholder(n)
	if n < 1 || !p.valid() || int64(p) != int64(n) {
		exitf("%w %d", ErrPlaceholder, n)
	}
	return p
}

// Position returns the 1-based call-site position of p.
func (p Placeholder) Position() int {
	return int(p)
}

func (p Placeholder) String() string {
	return "_" + strconv.Itoa(int(p))
}

// MarshalText encodes p as "_N".
func (p Placeholder) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w %d", ErrPlaceholder, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a placeholder of the form "_N", where N >= 1.
func (p *Placeholder) UnmarshalText(text []byte) error {
	s := string(text)
	digits, ok := strings.CutPrefix(s, "_")
	if !ok {
		return fmt.Errorf("invalid placeholder %q: missing _ prefix", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return fmt.Errorf("invalid placeholder %q: %w", s, err)
	} else if n < 1 {
		return fmt.Errorf("invalid placeholder %q: position must be at least 1", s)
	}
	*p = Placeholder(n)
	return nil
}

func (p Placeholder) valid() bool {
	return p > 0
}
