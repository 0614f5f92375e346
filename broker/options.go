package broker

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/matt-g-everett/hubcfg/config"
)

const (
	KeepAlive      = 30 * time.Second
	PingTimeout    = 5 * time.Second
	ConnectTimeout = 10 * time.Second
)

// NewClientOptions builds the paho options for the hub's broker session from s.
// This is the only place the broker password leaves its Secret.
func NewClientOptions(s *config.Store) *mqtt.ClientOptions {
	fields := log.Fields{
		"broker":    s.MQTTBrokerURL(),
		"client_id": s.MQTTClientID(),
	}

	return mqtt.NewClientOptions().
		AddBroker(s.MQTTBrokerURL()).
		SetClientID(s.MQTTClientID()).
		SetUsername(s.MQTTUsername()).
		SetPassword(s.MQTTPassword().Reveal()).
		SetKeepAlive(KeepAlive).
		SetPingTimeout(PingTimeout).
		SetConnectTimeout(ConnectTimeout).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithFields(fields).Info("Connected")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithFields(fields).WithError(err).Warn("Connection lost")
		})
}

// pahoLogger feeds paho's package loggers into logrus at a fixed level.
type pahoLogger struct {
	entry *log.Entry
	level log.Level
}

func (l pahoLogger) Println(v ...interface{}) {
	l.entry.Logln(l.level, v...)
}

func (l pahoLogger) Printf(format string, v ...interface{}) {
	l.entry.Logf(l.level, format, v...)
}

// RouteLogs points paho's ERROR, CRITICAL and WARN loggers at logrus.
func RouteLogs() {
	entry := log.WithField("component", "paho")
	mqtt.CRITICAL = pahoLogger{entry: entry, level: log.ErrorLevel}
	mqtt.ERROR = pahoLogger{entry: entry, level: log.ErrorLevel}
	mqtt.WARN = pahoLogger{entry: entry, level: log.WarnLevel}
}
