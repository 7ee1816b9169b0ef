package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	modbusclient "github.com/tetragramaton/smartfarm-go/internal/client/modbus"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	modbusIface "github.com/tetragramaton/smartfarm-go/internal/interface/modbus"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
)

func ProvideLogger(cfg envCfg) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "LOG_LEVEL")
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(l).WithField("app", "farm-adapter"), nil
}

func ProvideMqttClient(cfg envCfg, logger *logrus.Entry) (mqttIface.Client, func(), error) {
	opts := mqttclient.NewOptions(cfg.MQTT)
	client, err := mqttclient.NewClient(cfg.MQTT, opts, mqttclient.PahoFactory{})
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("broker", cfg.MQTT.BrokerURL()).Info("MQTT connected")
	return client, func() {
		_ = client.Close(250)
	}, nil
}

func ProvideModbusClient(cfg envCfg, logger *logrus.Entry) (modbusIface.Client, func(), error) {
	client, err := modbusclient.NewHandler(cfg.Modbus)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("modbus client close")
		}
	}, nil
}
