package sampler

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ericogr/max14001pmb-reader/pkg/lifecycle"
)

// Rounder runs one complete sampling round.
type Rounder interface {
	Round() error
}

// Driver repeats sampling rounds until the stop signal is observed. The
// signal is only checked between rounds, so a round in progress always
// completes and at most one further round starts after a stop request.
type Driver struct {
	Sampler  Rounder
	Stop     *lifecycle.StopSignal
	Interval time.Duration
	Clock    clock.Clock
	Out      io.Writer
}

// Run returns the number of completed rounds. A non-nil error means a round
// could not be launched and the loop was abandoned.
func (d *Driver) Run() (int, error) {
	clk := d.Clock
	if clk == nil {
		clk = clock.New()
	}
	w := d.Out
	if w == nil {
		w = os.Stdout
	}

	loop := 0
	for !d.Stop.Stopped() {
		fmt.Fprintf(w, "Reading.. loop(%d)\n", loop)
		if err := d.Sampler.Round(); err != nil {
			return loop, err
		}
		loop++
		fmt.Fprintln(w)
		clk.Sleep(d.Interval)
	}
	return loop, nil
}
