package provision

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/hubcfg/config"
)

var ErrUnsupportedFormat = errors.New("unsupported config file format")

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q (want .yaml, .yml or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
}

// DecodeFile decodes the file at path over the values already in into. Keys
// absent from the file leave the existing values alone; unknown keys are an
// error.
func DecodeFile(path string, into *config.Values) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch f {
	case formatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(into)
	default:
		err = yaml.UnmarshalStrict(data, into)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// WriteFile writes v to path in the format chosen by its extension. Secrets
// are never written.
func WriteFile(path string, v config.Values) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	v = v.WithoutSecrets()
	var data []byte
	switch f {
	case formatTOML:
		data, err = toml.Marshal(v)
	default:
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return os.WriteFile(path, data, 0644)
}
