package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// ReadConfig loads the analyzer service configuration from a YAML or
// JSON file.
func ReadConfig(configPath string) (Config, error) {
	var config Config
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return config, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return config, nil
}

// MustReadConfig panics when the configuration cannot be loaded; the
// service cannot start without one.
func MustReadConfig(configPath string) Config {
	config, err := ReadConfig(configPath)
	if err != nil {
		panic(err)
	}
	return config
}
