package modbus

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goburrow/modbus"
	"github.com/pkg/errors"
	modbusIface "github.com/tetragramaton/smartfarm-go/internal/interface/modbus"
)

const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

type EnvCfg struct {
	Mode string // "rtu" or "tcp"
	// RTU
	Port      string
	Baud      int
	DataBits  int
	Parity    string // "N","E","O"
	StopBits  int
	SlaveID   int
	TimeoutMs int

	// TCP
	TCPAddr string // "192.168.1.10:502"
}

type handler struct {
	modbusIface.API
	context.Context
	closeFn func() error
}

// NewHandler connects to the sensor bus described by cfg.
func NewHandler(cfg EnvCfg) (modbusIface.Client, error) {
	ctx := context.Background()
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond

	if cfg.Mode == "tcp" {
		th := modbus.NewTCPClientHandler(cfg.TCPAddr)
		th.Timeout = timeout
		th.SlaveId = byte(cfg.SlaveID)
		if err := th.Connect(); err != nil {
			return nil, errors.Wrapf(err, "modbus tcp %s", cfg.TCPAddr)
		}
		return &handler{
			API:     modbus.NewClient(th),
			Context: ctx,
			closeFn: th.Close,
		}, nil
	}

	rh := modbus.NewRTUClientHandler(cfg.Port)
	rh.BaudRate = cfg.Baud
	rh.DataBits = cfg.DataBits
	rh.Parity = cfg.Parity
	rh.StopBits = cfg.StopBits
	rh.SlaveId = byte(cfg.SlaveID)
	rh.Timeout = timeout
	if err := rh.Connect(); err != nil {
		return nil, errors.Wrapf(err, "modbus rtu %s", cfg.Port)
	}

	return &handler{
		API:     modbus.NewClient(rh),
		Context: ctx,
		closeFn: rh.Close,
	}, nil
}

// Wrap adapts a raw API, mostly for tests.
func Wrap(api modbusIface.API) modbusIface.Client {
	return &handler{API: api, Context: context.Background()}
}

func (h *handler) ReadFloat(param modbusIface.RegisterParam) (float64, error) {
	var res []byte
	var err error
	if param.Holding {
		res, err = h.API.ReadHoldingRegisters(param.Addr, 1)
	} else {
		res, err = h.API.ReadInputRegisters(param.Addr, 1)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "read register 0x%04x", param.Addr)
	}
	// 16-bit register
	if len(res) < 2 {
		return 0, errors.Errorf("short response from register 0x%04x", param.Addr)
	}
	scale := param.Scale
	if scale == 0 {
		scale = 1
	}
	raw := uint16(res[0])<<8 | uint16(res[1])
	return float64(int16(raw)) / scale, nil
}

func (h *handler) ReadCoil(addr uint16) (bool, error) {
	res, err := h.API.ReadCoils(addr, 1)
	if err != nil {
		return false, errors.Wrapf(err, "read coil 0x%04x", addr)
	}
	if len(res) < 1 {
		return false, errors.Errorf("short response from coil 0x%04x", addr)
	}
	return res[0]&0x01 == 1, nil
}

func (h *handler) WriteCoil(addr uint16, on bool) error {
	value := coilOff
	if on {
		value = coilOn
	}
	if _, err := h.API.WriteSingleCoil(addr, value); err != nil {
		return errors.Wrapf(err, "write coil 0x%04x", addr)
	}
	return nil
}

func (h *handler) Close() error {
	if h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}

func LoadEnvCfg() (EnvCfg, error) {
	var c EnvCfg

	c.Mode = strings.ToLower(getEnvDefault("MODBUS_MODE", "rtu"))
	if c.Mode != "rtu" && c.Mode != "tcp" {
		return c, errors.New("MODBUS_MODE must be 'rtu' or 'tcp'")
	}

	c.SlaveID, _ = strconv.Atoi(getEnvDefault("MODBUS_SLAVE_ID", "1"))
	c.TimeoutMs, _ = strconv.Atoi(getEnvDefault("MODBUS_TIMEOUT_MS", "500"))

	if c.Mode == "tcp" {
		c.TCPAddr = os.Getenv("MODBUS_TCP_ADDR")
		if c.TCPAddr == "" {
			return c, errors.New("missing MODBUS_TCP_ADDR for tcp mode")
		}
		return c, nil
	}

	c.Port = getEnvDefault("MODBUS_PORT", "/dev/ttyUSB0")
	c.Baud, _ = strconv.Atoi(getEnvDefault("MODBUS_BAUD", "9600"))
	c.DataBits, _ = strconv.Atoi(getEnvDefault("MODBUS_DATABITS", "8"))
	c.Parity = strings.ToUpper(getEnvDefault("MODBUS_PARITY", "N"))
	c.StopBits, _ = strconv.Atoi(getEnvDefault("MODBUS_STOPBITS", "1"))

	return c, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
