package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ericogr/max14001pmb-reader/pkg/config"
)

type fakeMessage struct {
	topic    string
	retained bool
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return m.retained }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return []byte("stop") }
func (m fakeMessage) Ack()              {}

func TestMQTTCommandHandle(t *testing.T) {
	m := &MQTTCommand{topic: "bench/stop", log: zap.NewNop()}

	hit, err := m.Poll()
	assert.NoError(t, err)
	assert.False(t, hit)

	m.handle(nil, fakeMessage{topic: "bench/stop", retained: true})
	hit, _ = m.Poll()
	assert.False(t, hit, "retained command must be ignored")

	m.handle(nil, fakeMessage{topic: "bench/stop"})
	hit, _ = m.Poll()
	assert.True(t, hit)

	assert.NoError(t, m.Close())
}

func TestNewMQTTCommandConnectError(t *testing.T) {
	_, err := NewMQTTCommand(config.MQTTConfig{
		Server:    "tcp://127.0.0.1:1",
		ClientID:  "test",
		StopTopic: "bench/stop",
	}, nil)
	assert.ErrorContains(t, err, "mqtt connect")
}
