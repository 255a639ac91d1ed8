package watcher

import (
	"fmt"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/ericogr/max14001pmb-reader/pkg/config"
)

// MQTTCommand treats any message on the stop topic as a keypress, so the
// reader can be stopped from another machine on the bench.
type MQTTCommand struct {
	client mqtt.Client
	topic  string
	hit    atomic.Bool
	log    *zap.Logger
}

func NewMQTTCommand(cfg config.MQTTConfig, log *zap.Logger) (*MQTTCommand, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := &MQTTCommand{topic: cfg.StopTopic, log: log}

	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	m.client = client

	sub := client.Subscribe(m.topic, 1, m.handle)
	sub.Wait()
	if sub.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("mqtt subscribe %s: %w", m.topic, sub.Error())
	}
	log.Info("Listening for stop commands", zap.String("server", cfg.Server), zap.String("topic", m.topic))
	return m, nil
}

// handle ignores retained messages: a stale command left on the broker
// would otherwise stop every new run immediately.
func (m *MQTTCommand) handle(_ mqtt.Client, msg mqtt.Message) {
	if msg.Retained() {
		m.log.Debug("ignoring retained stop command", zap.String("topic", msg.Topic()))
		return
	}
	m.log.Info("Stop command received", zap.String("topic", msg.Topic()))
	m.hit.Store(true)
}

func (m *MQTTCommand) Poll() (bool, error) {
	return m.hit.Load(), nil
}

func (m *MQTTCommand) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}
