package config

import "strings"

const redacted = "[redacted]"

// Secret holds a credential. Its String, GoString and marshal methods never
// expose the value.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the raw value. Do not pass the result to a logger.
func (s Secret) Reveal() string {
	return s.value
}

// IsSet reports whether the secret holds anything other than whitespace.
// Blank placeholders count as unset.
func (s Secret) IsSet() bool {
	return strings.TrimSpace(s.value) != ""
}

func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return `config.Secret("` + s.String() + `")`
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Secret) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
