package spec

import "fmt"

// InitError reports an invalid command specification: duplicate option
// names, a positional index gap, a malformed arity or index string, or a
// help-triggering option with a non-boolean type. It is always fatal at
// build time and never recoverable mid-parse.
type InitError struct {
	msg   string
	cause error
}

func initErrorf(format string, args ...any) *InitError {
	err := fmt.Errorf(format, args...)
	return &InitError{msg: err.Error(), cause: unwrap(err)}
}

func unwrap(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}

func (e *InitError) Error() string {
	return "spec: " + e.msg
}

// Unwrap returns the underlying cause, if any.
func (e *InitError) Unwrap() error {
	return e.cause
}
