package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ericogr/max14001pmb-reader/pkg/sensor"
)

const namespace = "max14001"

const (
	ResultOK         = "ok"
	ResultOpenError  = "open_error"
	ResultReadError  = "read_error"
	ResultOtherError = "error"
)

// Metrics counts sampling activity. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	reg           *prometheus.Registry
	rounds        prometheus.Counter
	reads         *prometheus.CounterVec
	roundDuration prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		rounds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Sampling rounds completed.",
		}),
		reads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Channel reads by outcome.",
		}, []string{"path", "kind", "result"}),
		roundDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Time from fan-out to join of a sampling round.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) ObserveRound(d time.Duration) {
	if m == nil {
		return
	}
	m.rounds.Inc()
	m.roundDuration.Observe(d.Seconds())
}

// ObserveRead classifies err (nil on success) into a result label.
func (m *Metrics) ObserveRead(spec sensor.ChannelSpec, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	switch {
	case err == nil:
	case errors.Is(err, sensor.ErrOpenFailed):
		result = ResultOpenError
	case errors.Is(err, sensor.ErrReadFailed):
		result = ResultReadError
	default:
		result = ResultOtherError
	}
	m.reads.WithLabelValues(spec.Path, spec.Kind.String(), result).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	log.Info("Starting metrics server", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		log.Info("Stopping metrics server", zap.String("addr", ln.Addr().String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return nil
}
