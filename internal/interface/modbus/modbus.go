package modbus

//go:generate mockgen -destination=mock/modbus_mock.go -package=mock github.com/tetragramaton/smartfarm-go/internal/interface/modbus API,Client

type RegisterParam struct {
	Addr    uint16  `json:"addr"`
	Scale   float64 `json:"scale"`
	Holding bool    `json:"holding"`
}

type Client interface {
	API
	ReadFloat(param RegisterParam) (float64, error)
	ReadCoil(addr uint16) (bool, error)
	WriteCoil(addr uint16, on bool) error
	Close() error
}

type API interface {
	ReadHoldingRegisters(address, quantity uint16) (results []byte, err error)
	ReadInputRegisters(address, quantity uint16) (results []byte, err error)
	ReadCoils(address, quantity uint16) (results []byte, err error)
	WriteSingleCoil(address, value uint16) (results []byte, err error)
}
