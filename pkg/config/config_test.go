package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFlagsDefaults(t *testing.T) {
	cfg, err := LoadFromFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval())
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval())
	assert.Nil(t, cfg.MQTT)
}

func TestLoadFromFlagsOverrides(t *testing.T) {
	cfg, err := LoadFromFlags([]string{
		"-voltage-device", "/tmp/dev0",
		"-current-device", "/tmp/dev1",
		"-sensor-type", "simulation",
		"-interval-ms", "20",
		"-poll-interval-ms", "5",
		"-log-level", "debug",
		"-metrics-addr", ":9100",
	})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dev0", cfg.VoltageDevice)
	assert.Equal(t, "/tmp/dev1", cfg.CurrentDevice)
	assert.Equal(t, SensorTypeSimulation, cfg.SensorType)
	assert.Equal(t, 20, cfg.IntervalMs)
	assert.Equal(t, 5, cfg.PollIntervalMs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.True(t, cfg.Keyboard)
}

func TestLoadFromFlagsMQTTDefaults(t *testing.T) {
	cfg, err := LoadFromFlags([]string{"-no-keyboard", "-mqtt-stop-topic", "lab/stop"})
	require.NoError(t, err)
	require.NotNil(t, cfg.MQTT)
	assert.False(t, cfg.Keyboard)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Server)
	assert.Equal(t, "max14001pmb-reader", cfg.MQTT.ClientID)
	assert.Equal(t, "lab/stop", cfg.MQTT.StopTopic)
}

func TestLoadFromFlagsInvalid(t *testing.T) {
	tests := []struct {
		description string
		args        []string
	}{
		{"zero interval", []string{"-interval-ms", "0"}},
		{"negative poll", []string{"-poll-interval-ms", "-5"}},
		{"unknown sensor", []string{"-sensor-type", "i2c"}},
		{"no stop input", []string{"-no-keyboard"}},
		{"unknown flag", []string{"-bogus"}},
		{"missing file", []string{"-config", "/nonexistent/reader.json"}},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := LoadFromFlags(tc.args)
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFlagsSimulationWithoutStopInput(t *testing.T) {
	cfg, err := LoadFromFlags([]string{"-sensor-type", "simulation", "-no-keyboard"})
	require.NoError(t, err)
	assert.Equal(t, SensorTypeSimulation, cfg.SensorType)
	assert.False(t, cfg.Keyboard)
	assert.Nil(t, cfg.MQTT)
}

func TestLoadFromFlagsFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reader.yaml")
	yml := `
voltage_device: /sys/bus/iio/devices/iio:device2
current_device: /sys/bus/iio/devices/iio:device3
interval_ms: 250
keyboard: false
mqtt:
  server: tcp://broker:1883
  stop_topic: bench/stop
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := LoadFromFlags([]string{"-config", path, "-interval-ms", "1000"})
	require.NoError(t, err)
	assert.Equal(t, "/sys/bus/iio/devices/iio:device2", cfg.VoltageDevice)
	assert.Equal(t, "/sys/bus/iio/devices/iio:device3", cfg.CurrentDevice)
	assert.Equal(t, 1000, cfg.IntervalMs)
	assert.Equal(t, 100, cfg.PollIntervalMs)
	assert.False(t, cfg.Keyboard)
	require.NotNil(t, cfg.MQTT)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Server)
	assert.Equal(t, "bench/stop", cfg.MQTT.StopTopic)
	assert.Equal(t, "max14001pmb-reader", cfg.MQTT.ClientID)
}
