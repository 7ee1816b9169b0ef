package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tetragramaton/smartfarm-go/internal/bridge"
	mqttclient "github.com/tetragramaton/smartfarm-go/internal/client/mqtt"
	"github.com/tetragramaton/smartfarm-go/internal/dashboard"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	Listen   string
	Broker   string
	Port     int
	PubTopic string
	SubTopic string
	Refresh  time.Duration
	LogLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(ctx).Execute(); err != nil {
		logrus.WithError(err).Error("farm-dashboard exited")
		os.Exit(1)
	}
}

func newCommand(ctx context.Context) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "farm-dashboard",
		Short:        "Live dashboard for the SmartFarm MQTT telemetry",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(ctx, opts)
		},
	}
	installFlags(cmd.Flags(), &opts)
	return cmd
}

func installFlags(flags *pflag.FlagSet, o *options) {
	flags.StringVar(&o.Listen, "listen", getenv("DASHBOARD_LISTEN", ":8501"), "HTTP listen address")
	flags.StringVar(&o.Broker, "broker", "", "MQTT broker host (default $MQTT_BROKER or "+mqttclient.DefaultBroker+")")
	flags.IntVar(&o.Port, "port", 0, "MQTT broker port (default $MQTT_PORT or "+strconv.Itoa(mqttclient.DefaultPort)+")")
	flags.StringVar(&o.PubTopic, "pub-topic", getenv("MQTT_PUB_TOPIC", bridge.DefaultPubTopic), "topic commands are published to")
	flags.StringVar(&o.SubTopic, "sub-topic", getenv("MQTT_SUB_TOPIC", bridge.DefaultSubTopic), "topic telemetry is read from")
	flags.DurationVar(&o.Refresh, "refresh", dashboard.DefaultRefresh, "page refresh interval")
	flags.StringVar(&o.LogLevel, "log-level", getenv("LOG_LEVEL", "info"), "log level")
}

func run(ctx context.Context, opts options) error {
	logger, err := newLogger(opts.LogLevel)
	if err != nil {
		return err
	}

	transport, err := mqttclient.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	if opts.Broker == "" {
		opts.Broker = transport.Broker
	}
	if opts.Port == 0 {
		opts.Port = transport.Port
	}

	app := InitApp(opts, transport, logger)

	srv := &http.Server{
		Addr:              opts.Listen,
		Handler:           app.Server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("listen", opts.Listen).Info("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		app.Registry.Close()
		logger.Info("dashboard stopped")
		return err
	})
	return g.Wait()
}

func newLogger(level string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	entry := logrus.NewEntry(l).WithField("app", "farm-dashboard")
	paho := entry.WithField("component", "paho")
	mqtt.ERROR = pahoLogger{paho, logrus.ErrorLevel}
	mqtt.CRITICAL = pahoLogger{paho, logrus.ErrorLevel}
	mqtt.WARN = pahoLogger{paho, logrus.WarnLevel}
	return entry, nil
}

// pahoLogger feeds paho's internal loggers into logrus.
type pahoLogger struct {
	entry *logrus.Entry
	level logrus.Level
}

func (p pahoLogger) Println(v ...interface{}) { p.entry.Log(p.level, v...) }

func (p pahoLogger) Printf(format string, v ...interface{}) { p.entry.Logf(p.level, format, v...) }

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
