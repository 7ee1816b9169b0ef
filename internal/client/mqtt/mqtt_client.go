package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	mqttIface "github.com/tetragramaton/smartfarm-go/internal/interface/mqtt"
)

const (
	DefaultBroker = "192.168.14.12"
	DefaultPort   = 1883
)

type mqttClient struct {
	mqttIface.API
	context.Context
}

type Config struct {
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	TLS            bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	// ConnectRetry makes paho keep retrying the first connection instead of
	// reporting the failure once.
	ConnectRetry   bool
	PublishTimeout time.Duration
}

// BrokerURL renders the paho server URL for the configured host and port.
func (c Config) BrokerURL() string {
	scheme := "tcp"
	if c.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.Broker, c.Port)
}

// DefaultConfig mirrors the field device defaults.
func DefaultConfig() Config {
	return Config{
		Broker:         DefaultBroker,
		Port:           DefaultPort,
		KeepAlive:      60 * time.Second,
		ConnectTimeout: 5 * time.Second,
		PublishTimeout: 2 * time.Second,
	}
}

// LoadConfigFromEnv starts from DefaultConfig and applies the MQTT_* variables.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Broker = getEnvDefault("MQTT_BROKER", cfg.Broker)
	if v := os.Getenv("MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid MQTT_PORT %q", v)
		}
		cfg.Port = port
	}
	cfg.ClientID = os.Getenv("MQTT_CLIENT_ID")
	cfg.Username = os.Getenv("MQTT_USERNAME")
	cfg.Password = os.Getenv("MQTT_PASSWORD")

	if v := os.Getenv("MQTT_TLS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid MQTT_TLS %q", v)
		}
		cfg.TLS = b
	}
	if v := os.Getenv("MQTT_CONNECT_RETRY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid MQTT_CONNECT_RETRY %q", v)
		}
		cfg.ConnectRetry = b
	}
	if v := os.Getenv("MQTT_KEEP_ALIVE_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid MQTT_KEEP_ALIVE_SECONDS %q", v)
		}
		cfg.KeepAlive = time.Duration(sec) * time.Second
	}

	return cfg, nil
}

// ConfigFromURL starts from DefaultConfig and takes host, port and scheme
// from a broker URL such as tcp://mqtt:1883 or ssl://broker:8883.
func ConfigFromURL(raw string) (Config, error) {
	cfg := DefaultConfig()
	u, err := url.Parse(raw)
	if err != nil {
		return cfg, errors.Wrapf(err, "invalid broker url %q", raw)
	}
	switch u.Scheme {
	case "tcp", "mqtt":
	case "ssl", "tls", "mqtts":
		cfg.TLS = true
	default:
		return cfg, errors.Errorf("unsupported broker scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return cfg, errors.Errorf("missing host in broker url %q", raw)
	}
	cfg.Broker = u.Hostname()
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid port in broker url %q", raw)
		}
		cfg.Port = port
	} else if cfg.TLS {
		cfg.Port = 8883
	}
	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}
	return cfg, nil
}

// ClientID returns the configured id or a unique one built from prefix.
func ClientID(cfg Config, prefix string) string {
	if cfg.ClientID != "" {
		return cfg.ClientID
	}
	return prefix + "-" + uuid.NewString()[:8]
}

// NewOptions builds paho options for cfg. Handlers are left to the caller.
func NewOptions(cfg Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL()).
		SetClientID(cfg.ClientID).
		SetKeepAlive(cfg.KeepAlive).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetPingTimeout(3 * time.Second).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(cfg.ConnectRetry).
		SetOrderMatters(false)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}
	return opts
}

// PahoFactory hands out real paho clients.
type PahoFactory struct{}

func (PahoFactory) NewClient(opts *mqtt.ClientOptions) mqttIface.API {
	return mqtt.NewClient(opts)
}

// NewClient connects synchronously and fails if the broker does not answer in time.
func NewClient(cfg Config, opts *mqtt.ClientOptions, factory mqttIface.Factory) (mqttIface.Client, error) {
	client := factory.NewClient(opts)
	t := client.Connect()
	if ok := t.WaitTimeout(10 * time.Second); !ok {
		return nil, errors.Errorf("connect to %s timed out", cfg.BrokerURL())
	}
	if err := t.Error(); err != nil {
		return nil, errors.Wrapf(err, "connect to %s", cfg.BrokerURL())
	}
	return Wrap(client), nil
}

// Wrap adapts an already built API to the Client port.
func Wrap(api mqttIface.API) mqttIface.Client {
	return &mqttClient{
		API:     api,
		Context: context.Background(),
	}
}

func (c mqttClient) PublishEvent(message mqttIface.Message) error {
	t := c.API.Publish(message.Topic, message.QoS, message.Retain, message.Payload)
	t.Wait()
	return t.Error()
}

func (c mqttClient) SubscribeToTopic(sub mqttIface.Subscription) error {
	t := c.API.Subscribe(sub.Topic, sub.QoS, sub.Callback)
	t.Wait()
	return t.Error()
}

func (c mqttClient) Close(quiesce uint) error {
	if c.IsConnectionOpen() {
		c.Disconnect(quiesce)
	}
	return nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
