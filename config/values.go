package config

import "fmt"

// Values is the raw, unvalidated input to New. The yaml and toml tags match
// the keys of the configuration files; the envconfig tags name the HUB_*
// variables that override them, e.g. HUB_MQTT_CLIENT_ID. Secrets are not
// read by envconfig because they may also come from a _FILE variable.
//
// Formatting a Values with %v, %+v or %#v redacts the secrets.
type Values struct {
	Network NetworkValues `yaml:"network" toml:"network"`
	MQTT    MQTTValues    `yaml:"mqtt" toml:"mqtt"`
	Notify  NotifyValues  `yaml:"notify" toml:"notify"`
	NTP     NTPValues     `yaml:"ntp" toml:"ntp"`
}

type NetworkValues struct {
	SSID       string `yaml:"ssid" toml:"ssid" split_words:"true"`
	Password   string `yaml:"password,omitempty" toml:"password,omitempty" ignored:"true"`
	StaticIP   string `yaml:"staticIP" toml:"staticIP" split_words:"true"`
	Gateway    string `yaml:"gateway" toml:"gateway" split_words:"true"`
	SubnetMask string `yaml:"subnetMask" toml:"subnetMask" split_words:"true"`
}

type MQTTValues struct {
	Host           string `yaml:"host" toml:"host" split_words:"true"`
	Port           int    `yaml:"port" toml:"port" split_words:"true"`
	ClientID       string `yaml:"clientID" toml:"clientID" split_words:"true"`
	Username       string `yaml:"username" toml:"username" split_words:"true"`
	Password       string `yaml:"password,omitempty" toml:"password,omitempty" ignored:"true"`
	SubscribeTopic string `yaml:"subscribeTopic" toml:"subscribeTopic" split_words:"true"`
	PublishTopic   string `yaml:"publishTopic" toml:"publishTopic" split_words:"true"`
}

type NotifyValues struct {
	ChatID   string `yaml:"chatID" toml:"chatID" split_words:"true"`
	BotToken string `yaml:"botToken,omitempty" toml:"botToken,omitempty" ignored:"true"`
}

type NTPValues struct {
	Server string `yaml:"server" toml:"server" split_words:"true"`
}

// Field names used in FieldError.
const (
	FieldSSID           = "network.ssid"
	FieldStaticIP       = "network.staticIP"
	FieldGateway        = "network.gateway"
	FieldSubnetMask     = "network.subnetMask"
	FieldMQTTHost       = "mqtt.host"
	FieldMQTTPort       = "mqtt.port"
	FieldMQTTClientID   = "mqtt.clientID"
	FieldMQTTPassword   = "mqtt.password"
	FieldSubscribeTopic = "mqtt.subscribeTopic"
	FieldPublishTopic   = "mqtt.publishTopic"
	FieldNotifyBotToken = "notify.botToken"
	FieldNTPServer      = "ntp.server"
)

// WithoutSecrets returns a copy of v with every secret field cleared.
func (v Values) WithoutSecrets() Values {
	v.Network.Password = ""
	v.MQTT.Password = ""
	v.Notify.BotToken = ""
	return v
}

// The plain types drop the methods below so fmt does not recurse.
type (
	plainValues  Values
	plainNetwork NetworkValues
	plainMQTT    MQTTValues
	plainNotify  NotifyValues
)

func (v Values) String() string {
	return fmt.Sprintf("%+v", plainValues(v))
}

func (v Values) GoString() string {
	return "config.Values" + v.String()
}

func (n NetworkValues) String() string {
	n.Password = redact(n.Password)
	return fmt.Sprintf("%+v", plainNetwork(n))
}

func (n NetworkValues) GoString() string {
	return "config.NetworkValues" + n.String()
}

func (m MQTTValues) String() string {
	m.Password = redact(m.Password)
	return fmt.Sprintf("%+v", plainMQTT(m))
}

func (m MQTTValues) GoString() string {
	return "config.MQTTValues" + m.String()
}

func (n NotifyValues) String() string {
	n.BotToken = redact(n.BotToken)
	return fmt.Sprintf("%+v", plainNotify(n))
}

func (n NotifyValues) GoString() string {
	return "config.NotifyValues" + n.String()
}

func redact(s string) string {
	return NewSecret(s).String()
}
