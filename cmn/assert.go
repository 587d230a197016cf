package cmn

import "fmt"

// Assert panics if cond is false. It is reserved for conditions that
// indicate a programming bug in imgfs itself (a slot index out of range,
// a store used after Close) - never for validating caller input, which
// must always go through a Kind-carrying *Error instead.
func Assert(cond bool) {
	if !cond {
		panic("assertion failed")
	}
}

// AssertMsg is Assert with a formatted message attached to the panic.
func AssertMsg(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}

// AssertNoErr panics if err is non-nil. Used for I/O calls that the
// caller has already proven cannot fail (e.g. writing to a buffer already
// sized to fit).
func AssertNoErr(err error) {
	if err != nil {
		panic(fmt.Sprintf("assertion failed: unexpected error: %v", err))
	}
}
