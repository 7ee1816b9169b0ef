// Package command defines the plain-text instructions understood by the
// field device: "pump on", "fan off", "led on", "interval 5", "status".
package command

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindActuator Kind = iota + 1
	KindInterval
	KindStatus
)

type Device string

const (
	Pump Device = "pump"
	Fan  Device = "fan"
	LED  Device = "led"
)

var Devices = []Device{Pump, Fan, LED}

const (
	MinInterval     = 1
	MaxInterval     = 3600
	DefaultInterval = 5
)

type Command struct {
	Kind    Kind
	Device  Device
	On      bool
	Seconds int
}

func Actuator(d Device, on bool) Command {
	return Command{Kind: KindActuator, Device: d, On: on}
}

// Interval builds "interval N"; N must lie within [MinInterval, MaxInterval].
func Interval(seconds int) (Command, error) {
	if seconds < MinInterval || seconds > MaxInterval {
		return Command{}, errors.Errorf("interval %d out of range [%d, %d]", seconds, MinInterval, MaxInterval)
	}
	return Command{Kind: KindInterval, Seconds: seconds}, nil
}

func Status() Command {
	return Command{Kind: KindStatus}
}

func (c Command) String() string {
	switch c.Kind {
	case KindActuator:
		if c.On {
			return string(c.Device) + " on"
		}
		return string(c.Device) + " off"
	case KindInterval:
		return "interval " + strconv.Itoa(c.Seconds)
	case KindStatus:
		return "status"
	}
	return ""
}

// ParseDevice accepts pump, fan or led in any case.
func ParseDevice(s string) (Device, error) {
	d := Device(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Devices {
		if d == known {
			return d, nil
		}
	}
	return "", errors.Errorf("unknown device %q", s)
}

// ParseState accepts on or off in any case.
func ParseState(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, errors.Errorf("unknown state %q", s)
}

// Parse interprets a command string as sent by the dashboard.
func Parse(text string) (Command, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Command{}, errors.New("empty command")
	}

	switch fields[0] {
	case "status":
		if len(fields) != 1 {
			return Command{}, errors.Errorf("malformed command %q", text)
		}
		return Status(), nil
	case "interval":
		if len(fields) != 2 {
			return Command{}, errors.Errorf("malformed command %q", text)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, errors.Wrapf(err, "interval %q", fields[1])
		}
		return Interval(n)
	}

	d, err := ParseDevice(fields[0])
	if err != nil {
		return Command{}, err
	}
	if len(fields) != 2 {
		return Command{}, errors.Errorf("malformed command %q", text)
	}
	on, err := ParseState(fields[1])
	if err != nil {
		return Command{}, err
	}
	return Actuator(d, on), nil
}
