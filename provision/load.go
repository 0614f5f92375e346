package provision

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/matt-g-everett/hubcfg/config"
)

// Options control where Load takes its values from.
type Options struct {
	// Path of a YAML or TOML file. Empty means no file.
	Path string
	// UseLiteral starts from Literal instead of Defaults.
	UseLiteral bool
}

// Values resolves the raw values in order: defaults, file, environment.
func (o Options) Values() (config.Values, error) {
	v := Defaults()
	if o.UseLiteral {
		v = Literal()
	}

	if o.Path != "" {
		if err := DecodeFile(o.Path, &v); err != nil {
			return config.Values{}, err
		}
		log.WithField("path", o.Path).Debug("Applied config file")
	}

	if err := ApplyEnv(&v); err != nil {
		return config.Values{}, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return v, nil
}

// Load resolves the values and validates them into a Store.
func Load(o Options) (*config.Store, error) {
	v, err := o.Values()
	if err != nil {
		return nil, err
	}

	s, err := config.New(v)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.WithFields(s.LogFields()).Debug("Configuration loaded")
	return s, nil
}
