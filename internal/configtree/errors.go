package configtree

import "fmt"

// BadConfigError reports that a configuration function's ordering or
// exclusion constraints were violated, or that it was re-applied to a tree
// that already carries it. Callers probe mutually exclusive branches by
// catching it with errors.As.
type BadConfigError struct {
	Func string
	Msg  string
	Err  error
}

func (e *BadConfigError) Error() string {
	msg := fmt.Sprintf("bad config in '%s': %s", e.Func, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadConfigError) Unwrap() error { return e.Err }
