//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
)

func InitApp(opts options, transport mqttclient.Config, logger *logrus.Entry) *App {
	wire.Build(
		NewApp,
		ProvideFactory,
		ProvideBridgeConfig,
		ProvideServer,
		bridge.NewRegistry,
	)
	return nil // wire will generate the result
}
