package bind

import (
	"errors"
	"testing"
)

// logf is a pointer to the current test's Logf function.
// Only used for debugging.
var logf = func(string, ...interface{}) {}

func setlogf(t *testing.T) {
	temp := logf
	logf = t.Logf
	t.Cleanup(func() { logf = temp })
}

// recovered calls fn and returns the value it panicked with, or nil.
func recovered(fn func()) (rc any) {
	defer func() { rc = recover() }()
	fn()
	return nil
}

// requireFailure checks that fn panics with an error that unwraps to a T and returns it.
func requireFailure[T error](t *testing.T, fn func()) T {
	t.Helper()
	var want T
	rc := recovered(fn)
	if rc == nil {
		t.Fatalf("no panic; want %T", want)
	}
	err, ok := rc.(error)
	if !ok {
		t.Fatalf("panic(%#v); want error %T", rc, want)
	}
	logf("recovered: %+v", err)
	if !errors.As(err, &want) {
		t.Fatalf("panic(%v); want %T", err, want)
	}
	return want
}
