package provision

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/matt-g-everett/hubcfg/config"
)

// envPrefix is joined with the section and field name of config.Values, so
// MQTT.ClientID is read from HUB_MQTT_CLIENT_ID.
const envPrefix = "HUB"

const (
	EnvSSID            = "HUB_NETWORK_SSID"
	EnvNetworkPassword = "HUB_NETWORK_PASSWORD"
	EnvStaticIP        = "HUB_NETWORK_STATIC_IP"
	EnvGateway         = "HUB_NETWORK_GATEWAY"
	EnvSubnetMask      = "HUB_NETWORK_SUBNET_MASK"
	EnvMQTTHost        = "HUB_MQTT_HOST"
	EnvMQTTPort        = "HUB_MQTT_PORT"
	EnvMQTTClientID    = "HUB_MQTT_CLIENT_ID"
	EnvMQTTUsername    = "HUB_MQTT_USERNAME"
	EnvMQTTPassword    = "HUB_MQTT_PASSWORD"
	EnvSubscribeTopic  = "HUB_MQTT_SUBSCRIBE_TOPIC"
	EnvPublishTopic    = "HUB_MQTT_PUBLISH_TOPIC"
	EnvNotifyChatID    = "HUB_NOTIFY_CHAT_ID"
	EnvNotifyBotToken  = "HUB_NOTIFY_BOT_TOKEN"
	EnvNTPServer       = "HUB_NTP_SERVER"

	// fileSuffix marks a variable naming a file that holds a secret.
	fileSuffix = "_FILE"
)

var ErrConflictingEnv = errors.New("both a value and a _FILE variable are set")

// ApplyEnv overrides fields of v with any HUB_* variables set in the process
// environment. A variable that is set but empty clears the field. The secrets
// may also be supplied as HUB_..._FILE pointing at a file whose contents,
// minus one trailing newline, become the value.
func ApplyEnv(v *config.Values) error {
	if err := envconfig.Process(envPrefix, v); err != nil {
		return err
	}

	secrets := map[string]*string{
		EnvNetworkPassword: &v.Network.Password,
		EnvMQTTPassword:    &v.MQTT.Password,
		EnvNotifyBotToken:  &v.Notify.BotToken,
	}
	for key, field := range secrets {
		if err := applySecret(key, field); err != nil {
			return err
		}
	}

	return nil
}

func applySecret(key string, field *string) error {
	val, hasVal := os.LookupEnv(key)
	path, hasFile := os.LookupEnv(key + fileSuffix)

	switch {
	case hasVal && hasFile:
		return fmt.Errorf("%s and %s: %w", key, key+fileSuffix, ErrConflictingEnv)
	case hasFile:
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key+fileSuffix, err)
		}
		*field = trimNewline(string(data))
	case hasVal:
		*field = val
	}
	return nil
}

// trimNewline removes a single trailing "\n" or "\r\n".
func trimNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s
	}
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
}
