//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
)

func InitAdapter() (*Adapter, func(), error) {
	wire.Build(
		loadEnv,
		ProvideLogger,
		ProvideMqttClient,
		ProvideModbusClient,
		NewAdapter,
	)
	return nil, nil, nil // wire will generate the result
}
