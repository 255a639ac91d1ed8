package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SensorTypeReal       = "real"
	SensorTypeSimulation = "simulation"
)

type MQTTConfig struct {
	Server    string `json:"server" yaml:"server"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
	ClientID  string `json:"client_id" yaml:"client_id"`
	StopTopic string `json:"stop_topic" yaml:"stop_topic"`
}

type Config struct {
	VoltageDevice  string      `json:"voltage_device" yaml:"voltage_device"`
	CurrentDevice  string      `json:"current_device" yaml:"current_device"`
	SensorType     string      `json:"sensor_type" yaml:"sensor_type"`
	IntervalMs     int         `json:"interval_ms" yaml:"interval_ms"`
	PollIntervalMs int         `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	Keyboard       bool        `json:"keyboard" yaml:"keyboard"`
	LogLevel       string      `json:"log_level" yaml:"log_level"`
	MetricsAddr    string      `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`
	MQTT           *MQTTConfig `json:"mqtt,omitempty" yaml:"mqtt,omitempty"`
}

// DefaultConfig matches the MAX14001PMB board wiring: U11 (voltage) on
// iio:device0 and U51 (current) on iio:device1.
func DefaultConfig() Config {
	return Config{
		VoltageDevice:  "/sys/bus/iio/devices/iio:device0",
		CurrentDevice:  "/sys/bus/iio/devices/iio:device1",
		SensorType:     SensorTypeReal,
		IntervalMs:     500,
		PollIntervalMs: 100,
		Keyboard:       true,
		LogLevel:       "info",
	}
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// LoadFromFlags loads configuration from a JSON or YAML file (optional) and
// flags. Flags override values present in the file.
func LoadFromFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("max14001pmb-reader", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to JSON or YAML config file")
	flagVoltageDev := fs.String("voltage-device", "", "IIO directory of the voltage channel device")
	flagCurrentDev := fs.String("current-device", "", "IIO directory of the current channel device")
	flagSensorType := fs.String("sensor-type", "", "sensor type: real|simulation")
	flagInterval := fs.Int("interval-ms", -1, "Delay between sampling rounds in ms")
	flagPoll := fs.Int("poll-interval-ms", -1, "Keyboard/stop input polling interval in ms")
	flagNoKeyboard := fs.Bool("no-keyboard", false, "Do not watch the terminal for a keypress")
	flagLogLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	flagMetricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	flagMQTTServer := fs.String("mqtt-server", "", "MQTT server (tcp://host:port) for remote stop commands")
	flagMQTTUser := fs.String("mqtt-user", "", "MQTT username")
	flagMQTTPass := fs.String("mqtt-pass", "", "MQTT password")
	flagClientID := fs.String("mqtt-client-id", "", "MQTT client id")
	flagStopTopic := fs.String("mqtt-stop-topic", "", "MQTT topic whose messages stop the reader")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()

	if *cfgPath != "" {
		if err := loadFile(*cfgPath, &cfg); err != nil {
			return cfg, err
		}
	}

	if *flagVoltageDev != "" {
		cfg.VoltageDevice = *flagVoltageDev
	}
	if *flagCurrentDev != "" {
		cfg.CurrentDevice = *flagCurrentDev
	}
	if *flagSensorType != "" {
		cfg.SensorType = *flagSensorType
	}
	if *flagInterval != -1 {
		cfg.IntervalMs = *flagInterval
	}
	if *flagPoll != -1 {
		cfg.PollIntervalMs = *flagPoll
	}
	if *flagNoKeyboard {
		cfg.Keyboard = false
	}
	if *flagLogLevel != "" {
		cfg.LogLevel = *flagLogLevel
	}
	if *flagMetricsAddr != "" {
		cfg.MetricsAddr = *flagMetricsAddr
	}
	if *flagMQTTServer != "" || *flagMQTTUser != "" || *flagMQTTPass != "" || *flagClientID != "" || *flagStopTopic != "" {
		if cfg.MQTT == nil {
			cfg.MQTT = &MQTTConfig{}
		}
		if *flagMQTTServer != "" {
			cfg.MQTT.Server = *flagMQTTServer
		}
		if *flagMQTTUser != "" {
			cfg.MQTT.Username = *flagMQTTUser
		}
		if *flagMQTTPass != "" {
			cfg.MQTT.Password = *flagMQTTPass
		}
		if *flagClientID != "" {
			cfg.MQTT.ClientID = *flagClientID
		}
		if *flagStopTopic != "" {
			cfg.MQTT.StopTopic = *flagStopTopic
		}
	}
	applyMQTTDefaults(cfg.MQTT)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	default:
		err = json.Unmarshal(b, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyMQTTDefaults(m *MQTTConfig) {
	if m == nil {
		return
	}
	if m.Server == "" {
		m.Server = "tcp://localhost:1883"
	}
	if m.ClientID == "" {
		m.ClientID = "max14001pmb-reader"
	}
	if m.StopTopic == "" {
		m.StopTopic = "max14001pmb/stop"
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.IntervalMs <= 0 {
		return errors.New("interval-ms must be > 0")
	}
	if c.PollIntervalMs <= 0 {
		return errors.New("poll-interval-ms must be > 0")
	}
	switch c.SensorType {
	case SensorTypeReal, SensorTypeSimulation:
	default:
		return fmt.Errorf("unknown sensor type %q", c.SensorType)
	}
	if c.VoltageDevice == "" || c.CurrentDevice == "" {
		return errors.New("voltage and current devices must be set")
	}
	// simulation runs can still be ended with SIGINT/SIGTERM
	if !c.Keyboard && c.MQTT == nil && c.SensorType != SensorTypeSimulation {
		return errors.New("no stop input: enable the keyboard or configure an MQTT stop topic")
	}
	return nil
}
