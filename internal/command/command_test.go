package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_FixedLiterals(t *testing.T) {
	assert.Equal(t, "pump on", Actuator(Pump, true).String())
	assert.Equal(t, "pump off", Actuator(Pump, false).String())
	assert.Equal(t, "fan on", Actuator(Fan, true).String())
	assert.Equal(t, "fan off", Actuator(Fan, false).String())
	assert.Equal(t, "led on", Actuator(LED, true).String())
	assert.Equal(t, "led off", Actuator(LED, false).String())
	assert.Equal(t, "status", Status().String())
	assert.Equal(t, "", Command{}.String())
}

func TestInterval_Bounds(t *testing.T) {
	for _, n := range []int{MinInterval, 10, MaxInterval} {
		c, err := Interval(n)
		require.NoError(t, err)
		assert.Equal(t, n, c.Seconds)
	}
	c, _ := Interval(10)
	assert.Equal(t, "interval 10", c.String())

	for _, n := range []int{0, -5, MaxInterval + 1} {
		_, err := Interval(n)
		assert.Error(t, err, "interval %d", n)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	iv, _ := Interval(300)
	for _, want := range []Command{
		Actuator(Pump, true), Actuator(Fan, false), Actuator(LED, true), Status(), iv,
	} {
		got, err := Parse(want.String())
		require.NoError(t, err, want.String())
		assert.Equal(t, want, got)
	}
}

func TestParse_Lenient(t *testing.T) {
	got, err := Parse("  PUMP   On \n")
	require.NoError(t, err)
	assert.Equal(t, Actuator(Pump, true), got)
}

func TestParse_Errors(t *testing.T) {
	for _, text := range []string{
		"", "   ", "heater on", "pump", "pump maybe", "pump on now",
		"interval", "interval x", "interval 0", "interval 3601", "status please",
	} {
		_, err := Parse(text)
		assert.Error(t, err, "%q", text)
	}
}
