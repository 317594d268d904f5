package bind

// Merge resolves bound against the call-site arguments in call. The result has one element per
// bound argument, in bound order: literals are passed through and each placeholder is replaced by
// call[p-1]. Call-site arguments that no placeholder refers to are ignored.
//
// Merge panics with an *ArityError if a placeholder refers past the end of call. No element of the
// result is produced in that case.
func Merge(bound Args, call []any) []any {
	checkArity(bound, call)
	merged := make([]any, 0, len(bound))
	for _, arg := range bound {
		merged = append(merged, arg.resolve(call))
	}
	return merged
}

// TryMerge is Merge, but returns an arity violation as an error instead of panicking.
func TryMerge(bound Args, call []any) (merged []any, err error) {
	defer captureErr(&err)
	return Merge(bound, call), nil
}

func checkArity(bound Args, call []any) {
	if n := bound.Arity(); n > len(call) {
		exit(&ArityError{Position: Placeholder(n), Given: len(call)})
	}
}

func (a Arg) resolve(call []any) any {
	if !a.IsPlaceholder() {
		return a.val
	}
	return call[a.pos-1]
}
