package config

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestSecret(t *testing.T) {
	s := NewSecret("hunter2")

	assert.Equal(t, "hunter2", s.Reveal())
	assert.True(t, s.IsSet())
	assert.Equal(t, "[redacted]", s.String())
	assert.Equal(t, "[redacted]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[redacted]", fmt.Sprintf("%s", s))
	assert.Equal(t, `config.Secret("[redacted]")`, fmt.Sprintf("%#v", s))
}

func TestSecret_Unset(t *testing.T) {
	for _, raw := range []string{"", " ", "\t"} {
		s := NewSecret(raw)
		assert.False(t, s.IsSet())
		assert.Equal(t, "", s.String())
		assert.Equal(t, raw, s.Reveal())
	}
}

func TestSecret_Marshal(t *testing.T) {
	doc := struct {
		Token Secret `json:"token" yaml:"token"`
		Empty Secret `json:"empty" yaml:"empty"`
	}{
		Token: NewSecret("hunter2"),
	}

	j, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"[redacted]","empty":""}`, string(j))

	y, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(y), "hunter2")
	assert.Contains(t, string(y), "[redacted]")
}
