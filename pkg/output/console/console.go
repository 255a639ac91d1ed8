package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ericogr/max14001pmb-reader/pkg/output"
	"github.com/ericogr/max14001pmb-reader/pkg/sensor"
)

type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole writes to w, or to whatever os.Stdout is at publish time when
// w is nil.
func NewConsole(w io.Writer) output.Output {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) Publish(r sensor.Reading) error {
	label := "Voltage"
	if r.Channel.Kind == sensor.Current {
		label = "Current"
	}
	w := c.w
	if w == nil {
		w = os.Stdout
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(w, "(%s): Input %s = %f (%s)\n", r.Channel.Path, label, r.Value, r.Channel.Kind.Unit())
	return err
}

func (c *ConsoleOutput) Close() error { return nil }
