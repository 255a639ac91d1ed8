package sensor

import (
	"errors"
	"fmt"
)

var (
	ErrOpenFailed = errors.New("open failed")
	ErrReadFailed = errors.New("read failed")
)

// ReadError reports a channel that produced no reading this round. It matches
// both its Op sentinel and the underlying OS error with errors.Is.
type ReadError struct {
	Op   error
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{e.Op, e.Err}
}
