package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gr-butler/agrinode/env"
	logger "github.com/sirupsen/logrus"
)

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Publisher is the part of mqtt.Client used to deliver telemetry.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes each payload to a fixed topic.
type MQTT struct {
	client Publisher
	topic  string
	qos    byte
	wait   time.Duration
}

func NewMQTT(client Publisher, topic string) *MQTT {
	return &MQTT{
		client: client,
		topic:  topic,
		qos:    env.MQTTQoS,
		wait:   env.MQTTPublishWait,
	}
}

// Send blocks until the broker has the message, the wait expires or ctx is
// done. Nothing is retried.
func (m *MQTT) Send(ctx context.Context, payload []byte) error {
	token := m.client.Publish(m.topic, m.qos, false, payload)

	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w after %v on %v", ErrPublishTimeout, m.wait, m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %v: %w", m.topic, err)
	}
	return nil
}

type ClientOpts struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Connect opens a client with automatic reconnect so a broker outage only
// costs the records sent while it is down.
func Connect(o ClientOpts) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID(o.ClientID)
	if o.Username != "" {
		opts.SetUsername(o.Username)
		opts.SetPassword(o.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		logger.Warnf("MQTT connection lost [%v]", err)
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		logger.Infof("Connected to [%v]", o.Broker)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}

// Log is used in test mode: the payload is only logged.
type Log struct{}

func (Log) Send(ctx context.Context, payload []byte) error {
	logger.Infof("TEST MODE, not sending [%s]", payload)
	return nil
}
