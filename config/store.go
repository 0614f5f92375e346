package config

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/matt-g-everett/hubcfg/util"
)

// Store is the validated, read-only configuration of the hub. Required text
// fields that hold only whitespace are treated as missing.
type Store struct {
	values Values

	staticIP   netip.Addr
	gateway    netip.Addr
	subnetMask netip.Addr
	prefix     netip.Prefix
	port       uint16
	subscribe  TopicFilter
	publish    Topic

	networkPassword Secret
	mqttPassword    Secret
	botToken        Secret
}

// New validates v and builds a Store from it. Every failing rule is reported
// in the returned *ValidationError; on failure the Store is nil.
func New(v Values) (*Store, error) {
	s := &Store{
		values:          v,
		networkPassword: NewSecret(v.Network.Password),
		mqttPassword:    NewSecret(v.MQTT.Password),
		botToken:        NewSecret(v.Notify.BotToken),
	}

	var errs []*FieldError
	fail := func(field string, value string, err error) {
		errs = append(errs, &FieldError{Field: field, Value: value, Err: err})
	}

	if blank(v.Network.SSID) {
		fail(FieldSSID, "", ErrMissingRequiredField)
	}

	addrsOK := true
	parse := func(field string, raw string) netip.Addr {
		addr, err := parseIPv4(raw)
		if err != nil {
			fail(field, raw, err)
			addrsOK = false
		}
		return addr
	}
	s.staticIP = parse(FieldStaticIP, v.Network.StaticIP)
	s.gateway = parse(FieldGateway, v.Network.Gateway)
	s.subnetMask = parse(FieldSubnetMask, v.Network.SubnetMask)
	if s.subnetMask.IsValid() {
		bits, ok := util.MaskBits(s.subnetMask)
		if !ok {
			fail(FieldSubnetMask, v.Network.SubnetMask, fmt.Errorf("%w: mask bits are not contiguous", ErrInvalidAddressFormat))
			addrsOK = false
		} else if s.staticIP.IsValid() {
			s.prefix = netip.PrefixFrom(s.staticIP, bits).Masked()
		}
	}
	if addrsOK && !util.SameSubnet(s.staticIP, s.gateway, s.subnetMask) {
		fail(FieldGateway, v.Network.Gateway,
			fmt.Errorf("%w: gateway is outside %s", ErrInconsistentNetworkConfig, s.prefix))
	}

	if blank(v.MQTT.Host) {
		fail(FieldMQTTHost, "", ErrMissingRequiredField)
	}
	if v.MQTT.Port < 1 || v.MQTT.Port > 65535 {
		fail(FieldMQTTPort, strconv.Itoa(v.MQTT.Port), fmt.Errorf("%w: must be in [1, 65535]", ErrInvalidPort))
	} else {
		s.port = uint16(v.MQTT.Port)
	}
	if blank(v.MQTT.ClientID) {
		fail(FieldMQTTClientID, "", ErrMissingRequiredField)
	}

	if f, err := ParseTopicFilter(v.MQTT.SubscribeTopic); err != nil {
		fail(FieldSubscribeTopic, v.MQTT.SubscribeTopic, err)
	} else {
		s.subscribe = f
	}
	if t, err := ParseTopic(v.MQTT.PublishTopic); err != nil {
		fail(FieldPublishTopic, v.MQTT.PublishTopic, err)
	} else {
		s.publish = t
	}

	if util.HasControl(v.MQTT.Password) {
		fail(FieldMQTTPassword, "", fmt.Errorf("%w: contains control characters", ErrInvalidSecretFormat))
	}
	if util.HasControl(v.Notify.BotToken) {
		fail(FieldNotifyBotToken, "", fmt.Errorf("%w: contains control characters", ErrInvalidSecretFormat))
	}

	if blank(v.NTP.Server) {
		fail(FieldNTPServer, "", ErrMissingRequiredField)
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return s, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseIPv4(raw string) (netip.Addr, error) {
	if raw == "" {
		return netip.Addr{}, fmt.Errorf("%w: empty", ErrInvalidAddressFormat)
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrInvalidAddressFormat, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: not an IPv4 address", ErrInvalidAddressFormat)
	}
	return addr, nil
}

// Equal reports whether o holds the same configuration, field by field.
func (s Store) Equal(o *Store) bool {
	return o != nil && s == *o
}

func (s Store) SSID() string {
	return s.values.Network.SSID
}

func (s Store) NetworkPassword() Secret {
	return s.networkPassword
}

func (s Store) StaticIP() netip.Addr {
	return s.staticIP
}

func (s Store) Gateway() netip.Addr {
	return s.gateway
}

func (s Store) SubnetMask() netip.Addr {
	return s.subnetMask
}

// Prefix returns the network the static address lives in, e.g. 192.168.2.0/24.
func (s Store) Prefix() netip.Prefix {
	return s.prefix
}

func (s Store) MQTTHost() string {
	return s.values.MQTT.Host
}

func (s Store) MQTTPort() uint16 {
	return s.port
}

// MQTTBrokerURL returns the broker address in the form paho expects.
func (s Store) MQTTBrokerURL() string {
	return "tcp://" + net.JoinHostPort(s.values.MQTT.Host, strconv.Itoa(int(s.port)))
}

func (s Store) MQTTClientID() string {
	return s.values.MQTT.ClientID
}

func (s Store) MQTTUsername() string {
	return s.values.MQTT.Username
}

func (s Store) MQTTPassword() Secret {
	return s.mqttPassword
}

func (s Store) SubscribeFilter() TopicFilter {
	return s.subscribe
}

func (s Store) PublishTopic() Topic {
	return s.publish
}

// ReceivesOwnPublishes reports whether the subscription filter matches the
// publish topic, in which case the hub is delivered its own heartbeats.
func (s Store) ReceivesOwnPublishes() bool {
	return s.subscribe.Matches(s.publish)
}

func (s Store) NotifyChatID() string {
	return s.values.Notify.ChatID
}

func (s Store) NotifyBotToken() Secret {
	return s.botToken
}

// NotificationsEnabled is false while either the chat id or the bot token is
// still a blank placeholder.
func (s Store) NotificationsEnabled() bool {
	return strings.TrimSpace(s.values.Notify.ChatID) != "" && s.botToken.IsSet()
}

func (s Store) NTPServer() string {
	return s.values.NTP.Server
}

// LogFields returns the configuration as logrus fields with secrets redacted.
func (s Store) LogFields() log.Fields {
	return log.Fields{
		"ssid":             s.SSID(),
		"wifi_password":    s.networkPassword.String(),
		"static_ip":        s.staticIP.String(),
		"gateway":          s.gateway.String(),
		"subnet":           s.prefix.String(),
		"mqtt_broker":      s.MQTTBrokerURL(),
		"mqtt_client_id":   s.MQTTClientID(),
		"mqtt_username":    s.MQTTUsername(),
		"mqtt_password":    s.mqttPassword.String(),
		"mqtt_subscribe":   s.subscribe.String(),
		"mqtt_publish":     s.publish.String(),
		"mqtt_loopback":    s.ReceivesOwnPublishes(),
		"notify_chat_id":   s.NotifyChatID(),
		"notify_bot_token": s.botToken.String(),
		"notify_enabled":   s.NotificationsEnabled(),
		"ntp_server":       s.NTPServer(),
	}
}

func (s Store) String() string {
	return fmt.Sprintf("ssid=%q ip=%s gw=%s subnet=%s broker=%s client=%q user=%q sub=%q pub=%q notify=%t ntp=%s",
		s.SSID(), s.staticIP, s.gateway, s.prefix, s.MQTTBrokerURL(), s.MQTTClientID(), s.MQTTUsername(),
		s.subscribe, s.publish, s.NotificationsEnabled(), s.NTPServer())
}

func (s Store) GoString() string {
	return "config.Store{" + s.String() + "}"
}
