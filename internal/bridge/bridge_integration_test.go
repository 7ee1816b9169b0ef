package bridge

import (
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/telemetry"
	"github.com/tetragramaton/smartfarm-go/internal/testutil/broker"
)

func deviceClient(t *testing.T, br *broker.Broker) mqttIface.Client {
	t.Helper()
	cfg := mqttclient.DefaultConfig()
	cfg.Broker = br.Host
	cfg.Port = br.Port
	cfg.ClientID = mqttclient.ClientID(cfg, "device")

	c, err := mqttclient.NewClient(cfg, mqttclient.NewOptions(cfg), mqttclient.PahoFactory{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(100) })
	return c
}

func TestBridge_AgainstBroker(t *testing.T) {
	br := broker.Start(t)
	cfg := Config{
		Broker:   br.Host,
		Port:     br.Port,
		PubTopic: "smartfarm/it/cmd",
		SubTopic: "smartfarm/it/telemetry",
	}

	b := New(cfg, mqttclient.DefaultConfig(), mqttclient.PahoFactory{}, logrus.NewEntry(logrus.New()))
	t.Cleanup(b.Close)
	require.Eventually(t, b.Connected, 5*time.Second, 50*time.Millisecond)

	device := deviceClient(t, br)
	commands := make(chan string, 8)
	require.NoError(t, device.SubscribeToTopic(mqttIface.Subscription{
		Topic: cfg.PubTopic,
		Callback: func(_ mqtt.Client, m mqtt.Message) {
			commands <- string(m.Payload())
		},
	}))

	// the bridge subscribes right after CONNACK; keep publishing until it sees data
	payload := []byte(`{"temp": 24.5, "hum": 61.0, "pump": "off"}`)
	assert.Eventually(t, func() bool {
		_ = device.PublishEvent(mqttIface.Message{Topic: cfg.SubTopic, Payload: payload})
		return len(b.State().Snapshot) == 3
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, telemetry.Snapshot{
		"temp": json.Number("24.5"),
		"hum":  json.Number("61.0"),
		"pump": "off",
	}, b.State().Snapshot)

	res := b.PublishCommand("pump on")
	require.True(t, res.OK, "%v", res.Err)
	select {
	case got := <-commands:
		assert.Equal(t, "pump on", got)
	case <-time.After(5 * time.Second):
		t.Fatal("device never received the command")
	}

	b.Close()
	assert.False(t, b.Connected())
	assert.False(t, b.PublishCommand("status").OK)
}

func TestBridge_PublishAfterBrokerGone(t *testing.T) {
	br := broker.Start(t)
	cfg := Config{Broker: br.Host, Port: br.Port, PubTopic: "smartfarm/it/cmd", SubTopic: "smartfarm/it/telemetry"}

	b := New(cfg, mqttclient.DefaultConfig(), mqttclient.PahoFactory{}, logrus.NewEntry(logrus.New()))
	t.Cleanup(b.Close)
	require.Eventually(t, b.Connected, 5*time.Second, 50*time.Millisecond)

	br.Close()
	require.Eventually(t, func() bool { return !b.Connected() }, 5*time.Second, 50*time.Millisecond)

	res := b.PublishCommand("pump on")
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, mqtt.ErrNotConnected)
}

func TestBridge_UnreachableBroker(t *testing.T) {
	transport := mqttclient.DefaultConfig()
	transport.ConnectTimeout = 500 * time.Millisecond

	b := New(Config{Broker: "127.0.0.1", Port: 1, PubTopic: "a", SubTopic: "b"},
		transport, mqttclient.PahoFactory{}, logrus.NewEntry(logrus.New()))
	t.Cleanup(b.Close)

	select {
	case <-b.handshakeDone:
	case <-time.After(5 * time.Second):
		t.Fatal("handshake never resolved")
	}
	assert.False(t, b.Connected())
	assert.Empty(t, b.State().Snapshot)
	assert.False(t, b.PublishCommand("status").OK)
}

func TestRegistry_AgainstBroker(t *testing.T) {
	br := broker.Start(t)
	reg := NewRegistry(mqttclient.DefaultConfig(), mqttclient.PahoFactory{}, logrus.NewEntry(logrus.New()))
	t.Cleanup(reg.Close)

	first := reg.Acquire(Config{Broker: br.Host, Port: br.Port, PubTopic: "p1", SubTopic: "s1"})
	require.Eventually(t, first.Connected, 5*time.Second, 50*time.Millisecond)

	second := reg.Acquire(Config{Broker: br.Host, Port: br.Port, PubTopic: "p2", SubTopic: "s2"})
	assert.NotSame(t, first, second)
	assert.False(t, first.Connected())
	require.Eventually(t, second.Connected, 5*time.Second, 50*time.Millisecond)
	assert.Same(t, second, reg.Current())
}
