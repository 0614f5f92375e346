package broker

import (
	"context"
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/matt-g-everett/hubcfg/config"
)

var ErrUnreachable = errors.New("broker unreachable")

// quiesce is how long Disconnect waits for in-flight work, in milliseconds.
const quiesce = 250

type probeConfig struct {
	newClient func(*mqtt.ClientOptions) mqtt.Client
}

type ProbeOption func(*probeConfig)

// WithClientFactory replaces mqtt.NewClient.
func WithClientFactory(f func(*mqtt.ClientOptions) mqtt.Client) ProbeOption {
	return func(c *probeConfig) {
		c.newClient = f
	}
}

// Probe checks that the configured broker accepts the hub's credentials and
// subscription filter, then disconnects. It gives up when ctx is done.
func Probe(ctx context.Context, s *config.Store, opts ...ProbeOption) error {
	pc := probeConfig{newClient: mqtt.NewClient}
	for _, opt := range opts {
		opt(&pc)
	}

	options := NewClientOptions(s).SetAutoReconnect(false)
	client := pc.newClient(options)
	logger := log.WithField("broker", s.MQTTBrokerURL())

	if err := wait(ctx, client.Connect()); err != nil {
		if ctx.Err() != nil {
			// The connect may still complete after we stop waiting.
			client.Disconnect(quiesce)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, s.MQTTBrokerURL(), err)
	}
	defer client.Disconnect(quiesce)
	logger.Debug("Broker accepted connection")

	filter := s.SubscribeFilter().String()
	if err := wait(ctx, client.Subscribe(filter, 0, func(mqtt.Client, mqtt.Message) {})); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", filter, err)
	}
	logger.WithField("filter", filter).Debug("Broker accepted subscription")

	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
