package watcher

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ericogr/max14001pmb-reader/pkg/lifecycle"
)

// InputWatcher reports, without blocking, whether operator input has
// arrived since the last call.
type InputWatcher interface {
	Poll() (bool, error)
}

type InputCloser interface {
	InputWatcher
	io.Closer
}

// Any reports input as soon as one of inputs does. Errors from the others
// are joined and returned only when no input was seen.
func Any(inputs ...InputWatcher) InputWatcher {
	return anyInput(inputs)
}

type anyInput []InputWatcher

func (a anyInput) Poll() (bool, error) {
	var errs []error
	for _, in := range a {
		hit, err := in.Poll()
		if hit {
			return true, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return false, errors.Join(errs...)
}

// Watcher is the only writer of the stop signal.
type Watcher struct {
	input    InputWatcher
	stop     *lifecycle.StopSignal
	interval time.Duration
	clock    clock.Clock
	log      *zap.Logger
}

type Option func(*Watcher)

func WithClock(c clock.Clock) Option {
	return func(w *Watcher) { w.clock = c }
}

func New(input InputWatcher, stop *lifecycle.StopSignal, interval time.Duration, log *zap.Logger, opts ...Option) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Watcher{
		input:    input,
		stop:     stop,
		interval: interval,
		clock:    clock.New(),
		log:      log,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run polls the input every interval. It sets the stop signal and returns
// when input arrives or ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	warned := false
	for !w.stop.Stopped() {
		hit, err := w.input.Poll()
		if err != nil && !warned {
			w.log.Warn("input poll failed", zap.Error(err))
			warned = true
		}
		if hit {
			w.log.Debug("stop requested", zap.String("source", "input"))
			w.stop.Stop()
			return
		}

		select {
		case <-ctx.Done():
			w.log.Debug("stop requested", zap.String("source", "context"), zap.Error(ctx.Err()))
			w.stop.Stop()
			return
		case <-w.clock.After(w.interval):
		}
	}
}
