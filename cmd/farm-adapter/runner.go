package main

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tetragramaton/smartfarm-go/internal/command"
	"github.com/tetragramaton/smartfarm-go/internal/ha"
	modbusIface "github.com/tetragramaton/smartfarm-go/internal/interface/modbus"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
)

const (
	telemetryQoS byte = 0
	commandQoS   byte = 1
	discoveryQoS byte = 1
)

// Reading is the telemetry object the dashboard renders.
type Reading struct {
	Device string   `json:"device"`
	Ts     int64    `json:"ts"`
	Temp   *float64 `json:"temp,omitempty"`
	Hum    *float64 `json:"hum,omitempty"`
	Soil   *float64 `json:"soil,omitempty"`
	Lux    *float64 `json:"lux,omitempty"`
	Pump   string   `json:"pump,omitempty"`
	Fan    string   `json:"fan,omitempty"`
	LED    string   `json:"led,omitempty"`
}

// Adapter polls the Modbus sensor block, publishes telemetry and applies
// commands arriving on the command topic.
type Adapter struct {
	cfg    envCfg
	mqtt   mqttIface.Client
	modbus modbusIface.Client
	log    *logrus.Entry
	now    func() time.Time

	// bus serialises register access between the ticker and command callbacks.
	bus sync.Mutex

	mu       sync.Mutex
	interval time.Duration
	rearm    chan struct{}
}

func NewAdapter(cfg envCfg, mqttClient mqttIface.Client, modbusClient modbusIface.Client, logger *logrus.Entry) *Adapter {
	return &Adapter{
		cfg:      cfg,
		mqtt:     mqttClient,
		modbus:   modbusClient,
		log:      logger.WithField("device", cfg.DeviceID),
		now:      time.Now,
		interval: time.Duration(cfg.IntervalSec) * time.Second,
		rearm:    make(chan struct{}, 1),
	}
}

func (a *Adapter) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

func (a *Adapter) setInterval(d time.Duration) {
	a.mu.Lock()
	a.interval = d
	a.mu.Unlock()
	select {
	case a.rearm <- struct{}{}:
	default:
	}
}

// Announce publishes retained Home Assistant discovery configs.
func (a *Adapter) Announce() error {
	device := ha.FarmDevice(a.cfg.DeviceID, a.cfg.Model)
	msgs, err := ha.FarmDiscovery(device, a.cfg.TelemetryTopic, a.cfg.CommandTopic)
	if err != nil {
		return errors.Wrap(err, "build discovery")
	}
	for _, m := range msgs {
		if err := a.mqtt.PublishEvent(mqttIface.Message{
			Topic:   m.Topic,
			Payload: m.Payload,
			QoS:     discoveryQoS,
			Retain:  true,
		}); err != nil {
			return errors.Wrapf(err, "publish %s", m.Topic)
		}
	}
	a.log.Infof("HA discovery published (%d entities)", len(msgs))
	return nil
}

// Read polls every mapped point. Failed points are logged and omitted.
func (a *Adapter) Read() (Reading, bool) {
	a.bus.Lock()
	defer a.bus.Unlock()

	r := Reading{Device: a.cfg.DeviceID, Ts: a.now().Unix()}
	ok := false

	sensors := []struct {
		name  string
		param modbusIface.RegisterParam
		prec  int
		dst   **float64
	}{
		{"temp", a.cfg.Map.Temp, 1, &r.Temp},
		{"hum", a.cfg.Map.Hum, 1, &r.Hum},
		{"soil", a.cfg.Map.Soil, 1, &r.Soil},
		{"lux", a.cfg.Map.Lux, 0, &r.Lux},
	}
	for _, s := range sensors {
		if s.param.Addr == 0 {
			continue
		}
		v, err := a.modbus.ReadFloat(s.param)
		if err != nil {
			a.log.WithError(err).Warnf("read %s", s.name)
			continue
		}
		*s.dst = round(v, s.prec)
		ok = true
	}

	relays := []struct {
		dev command.Device
		dst *string
	}{
		{command.Pump, &r.Pump},
		{command.Fan, &r.Fan},
		{command.LED, &r.LED},
	}
	for _, c := range relays {
		addr := a.cfg.Map.coil(c.dev)
		if addr == 0 {
			continue
		}
		on, err := a.modbus.ReadCoil(addr)
		if err != nil {
			a.log.WithError(err).Warnf("read %s coil", c.dev)
			continue
		}
		*c.dst = onOff(on)
		ok = true
	}
	return r, ok
}

// PublishOnce reads the bus and publishes one telemetry object.
func (a *Adapter) PublishOnce() error {
	r, ok := a.Read()
	if !ok {
		return errors.New("no readings available")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshal reading")
	}
	return a.mqtt.PublishEvent(mqttIface.Message{
		Topic:   a.cfg.TelemetryTopic,
		Payload: data,
		QoS:     telemetryQoS,
	})
}

// HandleCommand applies one text command from the dashboard.
func (a *Adapter) HandleCommand(payload []byte) error {
	cmd, err := command.Parse(string(payload))
	if err != nil {
		a.log.WithError(err).WithField("payload", string(payload)).Warn("ignoring command")
		return err
	}
	log := a.log.WithField("command", cmd.String())

	switch cmd.Kind {
	case command.KindActuator:
		addr := a.cfg.Map.coil(cmd.Device)
		if addr == 0 {
			err := errors.Errorf("%s is not mapped to a coil", cmd.Device)
			log.WithError(err).Warn("ignoring command")
			return err
		}
		a.bus.Lock()
		err := a.modbus.WriteCoil(addr, cmd.On)
		a.bus.Unlock()
		if err != nil {
			log.WithError(err).Error("coil write failed")
			return err
		}
	case command.KindInterval:
		a.setInterval(time.Duration(cmd.Seconds) * time.Second)
		log.Info("telemetry interval changed")
		return nil
	}

	if err := a.PublishOnce(); err != nil {
		log.WithError(err).Error("publish telemetry")
		return err
	}
	log.Debug("command applied")
	return nil
}

// Run subscribes to commands and publishes telemetry until ctx is done.
func (a *Adapter) Run(ctx context.Context) error {
	if err := a.Announce(); err != nil {
		a.log.WithError(err).Warn("HA discovery failed")
	}

	if err := a.mqtt.SubscribeToTopic(mqttIface.Subscription{
		Topic: a.cfg.CommandTopic,
		QoS:   commandQoS,
		Callback: func(_ mqtt.Client, m mqtt.Message) {
			_ = a.HandleCommand(m.Payload())
		},
	}); err != nil {
		return errors.Wrapf(err, "subscribe %s", a.cfg.CommandTopic)
	}
	a.log.WithField("topic", a.cfg.CommandTopic).Info("listening for commands")

	ticker := time.NewTicker(a.Interval())
	defer ticker.Stop()

	a.tick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.tick()
		case <-a.rearm:
			ticker.Reset(a.Interval())
		}
	}
}

func (a *Adapter) tick() {
	if err := a.PublishOnce(); err != nil {
		a.log.WithError(err).Warn("publish telemetry")
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func round(v float64, prec int) *float64 {
	p := math.Pow(10, float64(prec))
	r := math.Round(v*p) / p
	return &r
}
