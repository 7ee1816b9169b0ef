package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	adapter, cleanup, err := InitAdapter()
	if err != nil {
		logrus.WithError(err).Fatal("farm-adapter init")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := adapter.Run(ctx); err != nil {
		adapter.log.WithError(err).Error("farm-adapter stopped")
		cleanup()
		os.Exit(1)
	}
	adapter.log.Info("farm-adapter stopped")
}
