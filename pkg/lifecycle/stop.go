package lifecycle

import "sync/atomic"

// StopSignal is the cooperative cancellation flag shared by the input
// watcher and the sampling loop. Once set it stays set.
type StopSignal struct {
	stopped atomic.Bool
}

func NewStopSignal() *StopSignal {
	return &StopSignal{}
}

// Stop sets the flag and reports whether this call was the one that set it.
func (s *StopSignal) Stop() bool {
	return s.stopped.CompareAndSwap(false, true)
}

func (s *StopSignal) Stopped() bool {
	return s.stopped.Load()
}
