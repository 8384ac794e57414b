// Package errors provides comprehensive error handling utilities for ElmGo.
//
// This file converts unexpected panics into structured errors so that a
// degenerate matrix or a misuse of the linear algebra layer surfaces as a
// regular error value instead of crashing the caller.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error created from a recovered panic.
type PanicError struct {
	PanicValue interface{} // value passed to panic()
	StackTrace string      // goroutine stack captured at recovery time
	Operation  string      // method the panic was recovered in
}

// NewPanicError captures the current stack and wraps the panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns nil. A PanicError is a root cause, not a wrapper.
func (e *PanicError) Unwrap() error { return nil }

// String includes the captured stack trace.
func (e *PanicError) String() string {
	return e.Error() + "\nStack trace:\n" + e.StackTrace
}

// Recover converts a panic into an error assigned through err. It is meant
// to be deferred at the top of exported methods that drive gonum:
//
//	func (m *ELMRegressor) Fit(X, y mat.Matrix) (err error) {
//	    defer Recover(&err, "ELMRegressor.Fit")
//	    ...
//	}
//
// If err already holds an error when the panic fires, the panic detail is
// layered on top of it and the original stays reachable through errors.Is.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = Wrapf(*err, "panic in %s: %v", operation, r)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute runs fn and converts any panic into a PanicError. It wraps
// one-shot operations that may panic, such as gonum matrix factorizations
// on degenerate inputs:
//
//	err := SafeExecute("pseudo inverse", func() error {
//	    return solve(h, y)
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
