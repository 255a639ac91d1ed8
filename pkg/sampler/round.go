package sampler

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ericogr/max14001pmb-reader/pkg/metrics"
	"github.com/ericogr/max14001pmb-reader/pkg/output"
	"github.com/ericogr/max14001pmb-reader/pkg/sensor"
)

// ErrLaunchFailed means a round could not start a reader for every channel.
// It is the only sampling error that ends the program.
var ErrLaunchFailed = errors.New("launch failed")

// ChannelReader reads and converts one channel.
type ChannelReader interface {
	Read(sensor.ChannelSpec) (sensor.Reading, error)
}

// Sampler runs rounds over a fixed set of channels.
type Sampler struct {
	channels []sensor.ChannelSpec
	reader   ChannelReader
	out      output.Output
	log      *zap.Logger
	metrics  *metrics.Metrics
	clock    clock.Clock
	// limit caps concurrent readers; 0 means one per channel
	limit int
}

type Option func(*Sampler)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sampler) { s.metrics = m }
}

func New(channels []sensor.ChannelSpec, reader ChannelReader, out output.Output, log *zap.Logger, opts ...Option) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sampler{
		channels: append([]sensor.ChannelSpec(nil), channels...),
		reader:   reader,
		out:      out,
		log:      log,
		clock:    clock.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Round reads every channel in parallel and returns once all of them have
// finished. A failing channel is logged and skipped; it never aborts the
// others. Only ErrLaunchFailed is returned.
func (s *Sampler) Round() error {
	start := s.clock.Now()

	var g errgroup.Group
	limit := s.limit
	if limit <= 0 {
		limit = len(s.channels)
	}
	// with one slot per channel TryGo never refuses; this is the only place
	// ErrLaunchFailed can surface
	g.SetLimit(limit)
	for _, ch := range s.channels {
		if !g.TryGo(func() error {
			s.sample(ch)
			return nil
		}) {
			_ = g.Wait()
			return fmt.Errorf("%w: %s", ErrLaunchFailed, ch.Path)
		}
	}
	err := g.Wait()

	s.metrics.ObserveRound(s.clock.Since(start))
	return err
}

func (s *Sampler) sample(spec sensor.ChannelSpec) {
	r, err := s.reader.Read(spec)
	s.metrics.ObserveRead(spec, err)
	if err != nil {
		msg := "Failed to read"
		if errors.Is(err, sensor.ErrOpenFailed) {
			msg = "Failed to open"
		}
		var re *sensor.ReadError
		if errors.As(err, &re) {
			err = re.Err
		}
		s.log.Error(msg, zap.String("path", spec.Path), zap.Error(err))
		return
	}

	s.log.Debug("sample",
		zap.String("path", spec.Path),
		zap.Int("raw", r.Raw),
		zap.String("value", r.Quantity()),
	)
	if err := s.out.Publish(r); err != nil {
		s.log.Warn("publish", zap.String("path", spec.Path), zap.Error(err))
	}
}
