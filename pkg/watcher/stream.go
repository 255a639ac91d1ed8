package watcher

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// Stream watches a reader from a dedicated goroutine and latches the first
// byte it sees. End of input is not treated as a keypress.
type Stream struct {
	hit  atomic.Bool
	mu   sync.Mutex
	err  error
	done chan struct{}
}

func NewStream(r io.Reader) *Stream {
	s := &Stream{done: make(chan struct{})}
	go s.read(r)
	return s
}

func (s *Stream) read(r io.Reader) {
	defer close(s.done)
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n > 0 {
			s.hit.Store(true)
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
			}
			return
		}
	}
}

func (s *Stream) Poll() (bool, error) {
	if s.hit.Load() {
		return true, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return false, s.err
}

// Close does not interrupt a pending read; the reader goroutine exits with
// the process.
func (s *Stream) Close() error { return nil }
