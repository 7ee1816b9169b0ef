package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	modbusclient "github.com/tetragramaton/smartfarm-go/internal/client/modbus"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/command"
	modbusIface "github.com/tetragramaton/smartfarm-go/internal/interface/modbus"
)

const clientIDPrefix = "smartfarm-adapter"

// RegMap locates each reading and relay on the bus. An address of 0 means
// the point is not wired and is left out of telemetry.
type RegMap struct {
	Temp modbusIface.RegisterParam `json:"temp"`
	Hum  modbusIface.RegisterParam `json:"hum"`
	Soil modbusIface.RegisterParam `json:"soil"`
	Lux  modbusIface.RegisterParam `json:"lux"`

	Pump uint16 `json:"pump"`
	Fan  uint16 `json:"fan"`
	LED  uint16 `json:"led"`
}

// DefaultRegMap matches the sensor block shipped with the greenhouse kit.
func DefaultRegMap() RegMap {
	return RegMap{
		Temp: modbusIface.RegisterParam{Addr: 0x0001, Scale: 10},
		Hum:  modbusIface.RegisterParam{Addr: 0x0002, Scale: 10},
		Soil: modbusIface.RegisterParam{Addr: 0x0003, Scale: 10},
		Lux:  modbusIface.RegisterParam{Addr: 0x0004, Scale: 1},
		Pump: 0x0010,
		Fan:  0x0011,
		LED:  0x0012,
	}
}

func (m RegMap) coil(d command.Device) uint16 {
	switch d {
	case command.Pump:
		return m.Pump
	case command.Fan:
		return m.Fan
	case command.LED:
		return m.LED
	}
	return 0
}

type envCfg struct {
	MQTT   mqttclient.Config
	Modbus modbusclient.EnvCfg

	DeviceID       string
	Model          string
	TelemetryTopic string
	CommandTopic   string
	IntervalSec    int
	LogLevel       string
	Map            RegMap
}

func loadEnv() (envCfg, error) {
	var cfg envCfg

	transport, err := mqttclient.ConfigFromURL(getEnvDefault("MQTT_URL", "tcp://localhost:1883"))
	if err != nil {
		return cfg, errors.Wrap(err, "MQTT_URL")
	}
	transport.ClientID = os.Getenv("MQTT_CLIENT_ID")
	transport.ClientID = mqttclient.ClientID(transport, clientIDPrefix)
	cfg.MQTT = transport

	if cfg.Modbus, err = modbusclient.LoadEnvCfg(); err != nil {
		return cfg, err
	}

	cfg.DeviceID = getEnvDefault("DEVICE_ID", "esp32s3.greenhouse")
	cfg.Model = getEnvDefault("MODEL", "SmartFarm Modbus node")
	cfg.TelemetryTopic = getEnvDefault("TELEMETRY_TOPIC", bridge.DefaultSubTopic)
	cfg.CommandTopic = getEnvDefault("COMMAND_TOPIC", bridge.DefaultPubTopic)
	cfg.LogLevel = getEnvDefault("LOG_LEVEL", "info")

	sec, err := strconv.Atoi(getEnvDefault("INTERVAL_SEC", strconv.Itoa(command.DefaultInterval)))
	if err != nil {
		return cfg, errors.Wrap(err, "INTERVAL_SEC")
	}
	if _, err := command.Interval(sec); err != nil {
		return cfg, errors.Wrap(err, "INTERVAL_SEC")
	}
	cfg.IntervalSec = sec

	cfg.Map = DefaultRegMap()
	if js := os.Getenv("MODBUS_MAP_JSON"); js != "" {
		m := DefaultRegMap()
		if err := json.Unmarshal([]byte(js), &m); err != nil {
			return cfg, errors.Wrap(err, "MODBUS_MAP_JSON")
		}
		cfg.Map = m
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
