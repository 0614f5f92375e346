package provision

import "github.com/matt-g-everett/hubcfg/config"

const (
	DefaultMQTTPort   = 1883
	DefaultNTPServer  = "pool.ntp.org"
	DefaultSubnetMask = "255.255.255.0"
)

// Defaults returns the values every load starts from.
func Defaults() config.Values {
	var v config.Values
	v.Network.SubnetMask = DefaultSubnetMask
	v.MQTT.Port = DefaultMQTTPort
	v.NTP.Server = DefaultNTPServer
	return v
}

// Literal returns the values compiled into the original hub firmware. SSID,
// chat id and every secret are blank placeholders that provisioning has to fill
// in, so Literal on its own does not validate.
func Literal() config.Values {
	return config.Values{
		Network: config.NetworkValues{
			SSID:       " ",
			Password:   " ",
			StaticIP:   "192.168.2.122",
			Gateway:    "192.168.2.1",
			SubnetMask: "255.255.255.0",
		},
		MQTT: config.MQTTValues{
			Host:           "raspberrypi.local",
			Port:           1883,
			ClientID:       "ESP8266-WD",
			Username:       "admin",
			SubscribeTopic: "heartbeatHUB/#",
			PublishTopic:   "heartbeatHUB",
		},
		Notify: config.NotifyValues{
			ChatID:   " ",
			BotToken: " ",
		},
		NTP: config.NTPValues{Server: "asia.pool.ntp.org"},
	}
}
