// Package telemetry decodes device telemetry payloads and formats them for display.
package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Keys reported by the field device. Payloads may carry others.
const (
	KeyTemp = "temp"
	KeyHum  = "hum"
	KeySoil = "soil"
	KeyLux  = "lux"
	KeyPump = "pump"
	KeyFan  = "fan"
	KeyLED  = "led"
)

// Placeholder is shown for values that are missing from the snapshot.
const Placeholder = "-"

// TimeLayout renders the last receipt time.
const TimeLayout = "2006-01-02 15:04:05"

// Snapshot is the most recent telemetry object exactly as decoded.
type Snapshot map[string]any

// Decode parses a telemetry payload. Invalid UTF-8 sequences are dropped
// before decoding; anything other than a single JSON object is rejected.
// Numbers are kept as json.Number so values survive exactly as sent.
func Decode(payload []byte) (Snapshot, error) {
	text := strings.ToValidUTF8(string(payload), "")

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.Wrap(err, "decode telemetry")
	}
	if obj == nil {
		return nil, errors.New("decode telemetry: payload is not a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode telemetry: trailing data after JSON object")
	}
	return Snapshot(obj), nil
}

// Clone returns a shallow copy so readers never share the writer's map.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Number returns the numeric value stored under key.
func (s Snapshot) Number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}

// Text returns a display string for key, or Placeholder when absent.
func (s Snapshot) Text(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return Placeholder
	}
	return fmt.Sprint(v)
}

// Pretty renders the snapshot as indented JSON for the raw viewer.
func (s Snapshot) Pretty() string {
	if len(s) == 0 {
		return "No data yet."
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(s)); err != nil {
		return fmt.Sprintf("%v", map[string]any(s))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// Metric describes one numeric tile on the dashboard.
type Metric struct {
	Key    string
	Label  string
	Format string
}

// Value formats the metric from s, or Placeholder if it is missing or not a number.
func (m Metric) Value(s Snapshot) string {
	v, ok := s.Number(m.Key)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf(m.Format, v)
}

var Metrics = []Metric{
	{Key: KeyTemp, Label: "Temp (°C)", Format: "%.1f"},
	{Key: KeyHum, Label: "Hum (%)", Format: "%.1f"},
	{Key: KeySoil, Label: "Soil (%)", Format: "%.1f"},
	{Key: KeyLux, Label: "Lux", Format: "%.0f"},
}

var Actuators = []string{KeyPump, KeyFan, KeyLED}
