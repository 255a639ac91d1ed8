//go:build !linux

package watcher

import "os"

// NewTerminal falls back to a reader goroutine. Without raw mode the
// terminal delivers input line by line, so Enter is needed.
func NewTerminal(f *os.File) (InputCloser, error) {
	return NewStream(f), nil
}
