// Package bridge keeps one MQTT session to the farm broker and exposes the
// latest telemetry snapshot and a command publisher to the dashboard.
//
// The paho delivery goroutines are the only writers of bridge state; the
// dashboard only reads copies through State.
package bridge

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/telemetry"
)

const (
	DefaultPubTopic = "smartfarm/esp32s3/cmd"
	DefaultSubTopic = "smartfarm/esp32s3/telemetry"

	clientIDPrefix     = "smartfarm-dashboard"
	defaultWaitTimeout = 2 * time.Second
)

const (
	commandQoS        byte = 0
	telemetryQoS      byte = 0
	disconnectQuiesce uint = 250
)

var ErrTimeout = errors.New("mqtt operation timed out")

// Config identifies one bridge. Changing any field means a new bridge.
type Config struct {
	Broker   string `json:"broker"`
	Port     int    `json:"port"`
	PubTopic string `json:"pub_topic"`
	SubTopic string `json:"sub_topic"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Broker, c.Port)
}

// Result is the outcome of a boundary operation.
type Result struct {
	OK  bool
	Err error
}

func succeeded() Result { return Result{OK: true} }

func failed(err error) Result { return Result{Err: err} }

// State is a consistent copy of the bridge's view of the world.
type State struct {
	Connected    bool
	Snapshot     telemetry.Snapshot
	LastReceived time.Time
}

// LastUpdate formats LastReceived, or the placeholder before the first message.
func (s State) LastUpdate() string {
	if s.LastReceived.IsZero() {
		return telemetry.Placeholder
	}
	return s.LastReceived.Format(telemetry.TimeLayout)
}

type returnCoder interface {
	ReturnCode() byte
}

type Bridge struct {
	cfg       Config
	transport mqttclient.Config
	client    mqttIface.API
	log       *logrus.Entry
	now       func() time.Time

	handshakeDone chan struct{}

	mu           sync.RWMutex
	connected    bool
	snapshot     telemetry.Snapshot
	lastReceived time.Time
}

// New builds the transport client and starts connecting without blocking.
// A failed first handshake is logged; the bridge stays usable and any
// further attempts are up to the paho client's reconnect policy.
func New(cfg Config, transport mqttclient.Config, factory mqttIface.Factory, logger *logrus.Entry) *Bridge {
	transport.Broker = cfg.Broker
	transport.Port = cfg.Port
	transport.ClientID = mqttclient.ClientID(transport, clientIDPrefix)

	b := &Bridge{
		cfg:       cfg,
		transport: transport,
		log: logger.WithFields(logrus.Fields{
			"broker": cfg.Address(),
			"pub":    cfg.PubTopic,
			"sub":    cfg.SubTopic,
		}),
		now:           time.Now,
		handshakeDone: make(chan struct{}),
		snapshot:      telemetry.Snapshot{},
	}

	opts := mqttclient.NewOptions(transport).
		SetOnConnectHandler(func(mqtt.Client) {
			b.HandleConnect()
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			b.HandleDisconnect(err)
		})

	b.client = factory.NewClient(opts)
	go b.awaitHandshake(b.client.Connect())
	return b
}

func (b *Bridge) awaitHandshake(t mqtt.Token) {
	defer close(b.handshakeDone)
	t.Wait()
	err := t.Error()
	if err == nil {
		return
	}
	var code byte
	if rc, ok := t.(returnCoder); ok {
		code = rc.ReturnCode()
	}
	b.HandleConnectFailure(code, err)
}

// HandleConnect marks the session up and subscribes to the telemetry topic.
// A failed subscribe leaves the bridge connected but without telemetry.
func (b *Bridge) HandleConnect() Result {
	b.setConnected(true)
	b.log.Info("MQTT connected")

	t := b.client.Subscribe(b.cfg.SubTopic, telemetryQoS, func(_ mqtt.Client, msg mqtt.Message) {
		b.HandleMessage(msg.Payload())
	})
	if err := b.wait(t); err != nil {
		b.log.WithError(err).Errorf("subscribe to %s failed", b.cfg.SubTopic)
		return failed(errors.Wrapf(err, "subscribe %s", b.cfg.SubTopic))
	}
	b.log.Infof("subscribed to %s", b.cfg.SubTopic)
	return succeeded()
}

// HandleConnectFailure records a rejected or failed handshake.
func (b *Bridge) HandleConnectFailure(code byte, err error) Result {
	b.setConnected(false)
	if err == nil {
		err = errors.Errorf("connack rc=%d", code)
	}
	b.log.WithError(err).Errorf("MQTT connect failed (rc=%d)", code)
	return failed(errors.Wrapf(err, "connect rc=%d", code))
}

// HandleDisconnect marks the session down, whether requested or not.
func (b *Bridge) HandleDisconnect(err error) {
	b.setConnected(false)
	if err != nil {
		b.log.WithError(err).Warn("MQTT disconnected")
		return
	}
	b.log.Warn("MQTT disconnected")
}

// HandleMessage replaces the snapshot with the decoded payload. Payloads
// that do not decode leave snapshot and timestamp as they were.
func (b *Bridge) HandleMessage(payload []byte) Result {
	snap, err := telemetry.Decode(payload)
	if err != nil {
		b.log.WithError(err).WithField("size", len(payload)).Error("JSON parse error")
		return failed(err)
	}
	received := b.now().Truncate(time.Second)

	b.mu.Lock()
	b.snapshot = snap
	b.lastReceived = received
	b.mu.Unlock()
	return succeeded()
}

// PublishCommand sends text verbatim to the command topic. Failures are
// logged and returned; nothing is queued or retried. While the session is
// down paho would accept a QoS 0 publish and drop it, so it is refused here.
func (b *Bridge) PublishCommand(text string) Result {
	if !b.Connected() {
		b.log.WithError(mqtt.ErrNotConnected).WithField("command", text).Error("publish error")
		return failed(errors.Wrapf(mqtt.ErrNotConnected, "publish %q", text))
	}
	t := b.client.Publish(b.cfg.PubTopic, commandQoS, false, text)
	if err := b.wait(t); err != nil {
		b.log.WithError(err).WithField("command", text).Error("publish error")
		return failed(errors.Wrapf(err, "publish %q", text))
	}
	b.log.WithField("command", text).Debug("command published")
	return succeeded()
}

func (b *Bridge) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return State{
		Connected:    b.connected,
		Snapshot:     b.snapshot.Clone(),
		LastReceived: b.lastReceived,
	}
}

func (b *Bridge) Connected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

func (b *Bridge) Config() Config {
	return b.cfg
}

// Close ends the session and releases the transport.
func (b *Bridge) Close() {
	b.client.Disconnect(disconnectQuiesce)
	b.HandleDisconnect(nil)
}

func (b *Bridge) setConnected(v bool) {
	b.mu.Lock()
	b.connected = v
	b.mu.Unlock()
}

func (b *Bridge) wait(t mqtt.Token) error {
	timeout := b.transport.PublishTimeout
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	if !t.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return t.Error()
}
