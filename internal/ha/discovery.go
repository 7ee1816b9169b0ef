// Package ha builds Home Assistant MQTT discovery payloads so the farm
// sensors and relays show up in HA next to the dashboard.
package ha

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tetragramaton/smartfarm-go/internal/command"
	"github.com/tetragramaton/smartfarm-go/internal/telemetry"
)

type Device struct {
	Identifiers  []string `json:"identifiers,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
}

type SensorConfig struct {
	Name         string                 `json:"name"`
	UniqueID     string                 `json:"unique_id"`
	StateTopic   string                 `json:"state_topic"`
	ValueTpl     string                 `json:"value_template,omitempty"`
	DeviceClass  string                 `json:"device_class,omitempty"`
	UnitOfMeas   string                 `json:"unit_of_measurement,omitempty"`
	Device       *Device                `json:"device,omitempty"`
	QoS          int                    `json:"qos,omitempty"`
	Availability []map[string]string    `json:"availability,omitempty"`
	Extra        map[string]interface{} `json:"-"`
}

type SwitchConfig struct {
	Name         string  `json:"name"`
	UniqueID     string  `json:"unique_id"`
	CommandTopic string  `json:"command_topic"`
	StateTopic   string  `json:"state_topic"`
	ValueTpl     string  `json:"value_template,omitempty"`
	PayloadOn    string  `json:"payload_on"`
	PayloadOff   string  `json:"payload_off"`
	StateOn      string  `json:"state_on"`
	StateOff     string  `json:"state_off"`
	Device       *Device `json:"device,omitempty"`
}

// Discovery is one retained config message.
type Discovery struct {
	Topic   string
	Payload []byte
}

func (c *SensorConfig) Marshal() ([]byte, error) {
	type alias SensorConfig
	a := alias(*c)
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	if c.Extra != nil {
		var base map[string]interface{}
		if err := json.Unmarshal(b, &base); err != nil {
			return nil, err
		}
		for k, v := range c.Extra {
			base[k] = v
		}
		return json.Marshal(base)
	}
	return b, nil
}

func TopicSensorConfig(cap, unique string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/config", unique, cap)
}

func TopicSwitchConfig(cap, unique string) string {
	return fmt.Sprintf("homeassistant/switch/%s/%s/config", unique, cap)
}

var sensorClasses = map[string]struct {
	class string
	unit  string
}{
	telemetry.KeyTemp: {"temperature", "°C"},
	telemetry.KeyHum:  {"humidity", "%"},
	telemetry.KeySoil: {"moisture", "%"},
	telemetry.KeyLux:  {"illuminance", "lx"},
}

// FarmDevice describes the sensor node as one HA device.
func FarmDevice(deviceID, model string) *Device {
	return &Device{
		Identifiers:  []string{deviceID},
		Manufacturer: "SmartFarm",
		Model:        model,
		Name:         deviceID,
	}
}

// FarmDiscovery returns sensor configs for the four metrics and switch
// configs for the relays. Switches publish the same text commands the
// dashboard sends.
func FarmDiscovery(device *Device, stateTopic, commandTopic string) ([]Discovery, error) {
	deviceID := device.Name
	unique := Sanitize(deviceID)
	out := make([]Discovery, 0, len(telemetry.Metrics)+len(command.Devices))

	for _, m := range telemetry.Metrics {
		cls := sensorClasses[m.Key]
		cfg := &SensorConfig{
			Name:        fmt.Sprintf("%s %s", deviceID, m.Key),
			UniqueID:    unique + "_" + m.Key,
			StateTopic:  stateTopic,
			ValueTpl:    fmt.Sprintf("{{ value_json.%s }}", m.Key),
			DeviceClass: cls.class,
			UnitOfMeas:  cls.unit,
			Device:      device,
		}
		b, err := cfg.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, Discovery{Topic: TopicSensorConfig(m.Key, unique), Payload: b})
	}

	for _, d := range command.Devices {
		cfg := &SwitchConfig{
			Name:         fmt.Sprintf("%s %s", deviceID, d),
			UniqueID:     unique + "_" + string(d),
			CommandTopic: commandTopic,
			StateTopic:   stateTopic,
			ValueTpl:     fmt.Sprintf("{{ value_json.%s }}", d),
			PayloadOn:    command.Actuator(d, true).String(),
			PayloadOff:   command.Actuator(d, false).String(),
			StateOn:      "on",
			StateOff:     "off",
			Device:       device,
		}
		b, err := json.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, Discovery{Topic: TopicSwitchConfig(string(d), unique), Payload: b})
	}
	return out, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func Sanitize(s string) string {
	return strings.ToLower(unsafeChars.ReplaceAllString(s, "_"))
}
