package mqtt

import mqtt "github.com/eclipse/paho.mqtt.golang"

//go:generate mockgen -destination=mock/mqtt_mock.go -package=mock github.com/tetragramaton/smartfarm-go/internal/interface/mqtt API,Client,Factory
//go:generate mockgen -destination=mock/paho_mock.go -package=mock github.com/eclipse/paho.mqtt.golang Token,Message

type Message struct {
	Topic   string `json:"topic"`
	Payload []byte `json:"payload"`
	QoS     byte   `json:"qos"`
	Retain  bool   `json:"retain"`
}

type Subscription struct {
	Topic    string              `json:"topic"`
	QoS      byte                `json:"qos"`
	Callback mqtt.MessageHandler `json:"-"`
}

type Client interface {
	API
	PublishEvent(message Message) error
	SubscribeToTopic(subscription Subscription) error
	Close(quiesce uint) error
}

// API is the subset of paho's mqtt.Client used by this module.
type API interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Disconnect(quiesce uint)
	IsConnectionOpen() bool
}

// Factory builds an unconnected client from paho options.
type Factory interface {
	NewClient(opts *mqtt.ClientOptions) API
}
