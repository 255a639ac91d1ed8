package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ericogr/max14001pmb-reader/pkg/config"
	"github.com/ericogr/max14001pmb-reader/pkg/lifecycle"
	"github.com/ericogr/max14001pmb-reader/pkg/logging"
	"github.com/ericogr/max14001pmb-reader/pkg/metrics"
	"github.com/ericogr/max14001pmb-reader/pkg/output"
	"github.com/ericogr/max14001pmb-reader/pkg/output/console"
	"github.com/ericogr/max14001pmb-reader/pkg/sampler"
	"github.com/ericogr/max14001pmb-reader/pkg/sensor"
	"github.com/ericogr/max14001pmb-reader/pkg/watcher"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin *os.File, stdout io.Writer) int {
	cfg, err := config.LoadFromFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		if err := m.Serve(ctx, cfg.MetricsAddr, log); err != nil {
			log.Error("metrics server", zap.Error(err))
			return 1
		}
	}

	inputs, err := initInputs(cfg, stdin, log)
	if err != nil {
		log.Error("stop input", zap.Error(err))
		return 1
	}
	defer closeInputs(inputs, log)

	out := initOutput(stdout)
	defer out.Close()

	stop := lifecycle.NewStopSignal()
	w := watcher.New(anyOf(inputs), stop, cfg.PollInterval(), log)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()

	channels := sensor.BuildChannels(cfg)
	s := sampler.New(channels, sensor.NewReader(dataSource(cfg)), out, log, sampler.WithMetrics(m))
	d := &sampler.Driver{Sampler: s, Stop: stop, Interval: cfg.Interval(), Out: stdout}

	fmt.Fprintln(stdout, "Press any key to stop the MAX14001 readings")
	rounds, err := d.Run()
	if err != nil {
		log.Error("sampling loop aborted", zap.Int("rounds", rounds), zap.Error(err))
		return 1
	}

	wg.Wait()
	log.Debug("sampling loop finished", zap.Int("rounds", rounds))
	fmt.Fprintln(stdout, "MAX14001PMB Reader Program terminated.")
	return 0
}

func initOutput(w io.Writer) output.Output {
	return console.NewConsole(w)
}

// dataSource returns nil for the host filesystem.
func dataSource(cfg config.Config) fs.FS {
	if cfg.SensorType == config.SensorTypeSimulation {
		return sensor.NewFakeFS(time.Now().UnixNano())
	}
	return nil
}

// initInputs opens every configured stop input. On error the inputs opened
// so far are closed.
func initInputs(cfg config.Config, stdin *os.File, log *zap.Logger) ([]watcher.InputCloser, error) {
	var inputs []watcher.InputCloser
	if cfg.Keyboard {
		t, err := watcher.NewTerminal(stdin)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, t)
	}
	if cfg.MQTT != nil {
		mc, err := watcher.NewMQTTCommand(*cfg.MQTT, log)
		if err != nil {
			closeInputs(inputs, log)
			return nil, err
		}
		inputs = append(inputs, mc)
	}
	return inputs, nil
}

func anyOf(inputs []watcher.InputCloser) watcher.InputWatcher {
	ws := make([]watcher.InputWatcher, len(inputs))
	for i, in := range inputs {
		ws[i] = in
	}
	return watcher.Any(ws...)
}

func closeInputs(inputs []watcher.InputCloser, log *zap.Logger) {
	for _, in := range inputs {
		if err := in.Close(); err != nil {
			log.Warn("close input", zap.Error(err))
		}
	}
}
