// Package provision gathers config.Values from compiled-in defaults, a YAML or
// TOML file and HUB_* environment variables, then hands them to config.New.
package provision
