package main

import (
	"github.com/sirupsen/logrus"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/dashboard"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
)

type App struct {
	Registry *bridge.Registry
	Server   *dashboard.Server
}

func NewApp(registry *bridge.Registry, server *dashboard.Server) *App {
	return &App{Registry: registry, Server: server}
}

func ProvideFactory() mqttIface.Factory {
	return mqttclient.PahoFactory{}
}

func ProvideBridgeConfig(opts options) bridge.Config {
	return bridge.Config{
		Broker:   opts.Broker,
		Port:     opts.Port,
		PubTopic: opts.PubTopic,
		SubTopic: opts.SubTopic,
	}
}

func ProvideServer(registry *bridge.Registry, initial bridge.Config, opts options, logger *logrus.Entry) *dashboard.Server {
	return dashboard.NewServer(registry, initial, opts.Refresh, logger)
}
