package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/hubcfg/config"
)

func testStore(t *testing.T) *config.Store {
	t.Helper()
	s, err := config.New(config.Values{
		Network: config.NetworkValues{
			SSID:       "hub-net",
			StaticIP:   "192.168.2.122",
			Gateway:    "192.168.2.1",
			SubnetMask: "255.255.255.0",
		},
		MQTT: config.MQTTValues{
			Host:           "raspberrypi.local",
			Port:           1883,
			ClientID:       "ESP8266-WD",
			Username:       "admin",
			Password:       "broker-pass",
			SubscribeTopic: "heartbeatHUB/#",
			PublishTopic:   "heartbeatHUB",
		},
		NTP: config.NTPValues{Server: "asia.pool.ntp.org"},
	})
	require.NoError(t, err)
	return s
}

type fakeToken struct {
	err   error
	block chan struct{}
}

func (t *fakeToken) Wait() bool {
	if t.block != nil {
		<-t.block
	}
	return true
}

func (t *fakeToken) WaitTimeout(time.Duration) bool {
	return t.Wait()
}

func (t *fakeToken) Done() <-chan struct{} {
	if t.block != nil {
		return t.block
	}
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *fakeToken) Error() error {
	return t.err
}

type fakeClient struct {
	mqtt.Client

	options      *mqtt.ClientOptions
	connect      *fakeToken
	subscribe    *fakeToken
	subscribed   string
	disconnected bool
}

func (c *fakeClient) Connect() mqtt.Token {
	return c.connect
}

func (c *fakeClient) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	c.subscribed = topic
	return c.subscribe
}

func (c *fakeClient) Disconnect(uint) {
	c.disconnected = true
}

func (c *fakeClient) factory() ProbeOption {
	return WithClientFactory(func(o *mqtt.ClientOptions) mqtt.Client {
		c.options = o
		return c
	})
}

func TestNewClientOptions(t *testing.T) {
	o := NewClientOptions(testStore(t))

	require.Len(t, o.Servers, 1)
	assert.Equal(t, "tcp://raspberrypi.local:1883", o.Servers[0].String())
	assert.Equal(t, "ESP8266-WD", o.ClientID)
	assert.Equal(t, "admin", o.Username)
	assert.Equal(t, "broker-pass", o.Password)
	assert.Equal(t, int64(30), o.KeepAlive)
	assert.Equal(t, PingTimeout, o.PingTimeout)
	assert.Equal(t, ConnectTimeout, o.ConnectTimeout)
	assert.True(t, o.CleanSession)
	assert.True(t, o.AutoReconnect)
	assert.NotNil(t, o.OnConnect)
	assert.NotNil(t, o.OnConnectionLost)
}

func TestProbe(t *testing.T) {
	c := &fakeClient{connect: &fakeToken{}, subscribe: &fakeToken{}}

	err := Probe(context.Background(), testStore(t), c.factory())
	require.NoError(t, err)

	assert.Equal(t, "heartbeatHUB/#", c.subscribed)
	assert.True(t, c.disconnected)
	assert.False(t, c.options.AutoReconnect)
}

func TestProbe_ConnectFailure(t *testing.T) {
	c := &fakeClient{connect: &fakeToken{err: errors.New("not authorized")}}

	err := Probe(context.Background(), testStore(t), c.factory())
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "not authorized")
	assert.NotContains(t, err.Error(), "broker-pass")
	assert.False(t, c.disconnected)
}

func TestProbe_SubscribeFailure(t *testing.T) {
	c := &fakeClient{connect: &fakeToken{}, subscribe: &fakeToken{err: errors.New("filter rejected")}}

	err := Probe(context.Background(), testStore(t), c.factory())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), "heartbeatHUB/#")
	assert.True(t, c.disconnected)
}

func TestProbe_ContextDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	c := &fakeClient{connect: &fakeToken{block: block}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Probe(ctx, testStore(t), c.factory())
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorContains(t, err, context.DeadlineExceeded.Error())
	assert.True(t, c.disconnected, "a connect still in flight must be torn down")
}

func TestProbe_SubscribeDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	c := &fakeClient{connect: &fakeToken{}, subscribe: &fakeToken{block: block}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Probe(ctx, testStore(t), c.factory())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrUnreachable)
	assert.True(t, c.disconnected)
}

func TestRouteLogs(t *testing.T) {
	RouteLogs()
	_, ok := mqtt.ERROR.(pahoLogger)
	assert.True(t, ok)
	_, ok = mqtt.WARN.(pahoLogger)
	assert.True(t, ok)
}
