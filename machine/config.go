// Package machine builds device trees from declarative configurations:
// it instantiates registered device types, assigns their properties,
// realizes them, and registers them with a reset controller.
package machine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// A Config describes one machine.
type Config struct {
	Name    string         `yaml:"name"`
	Devices []DeviceConfig `yaml:"devices"`
}

// A DeviceConfig describes one device instance: its registered type
// name, its unique id, and the property values to assign before
// realization.
type DeviceConfig struct {
	Type       string         `yaml:"type"`
	ID         string         `yaml:"id"`
	Properties map[string]any `yaml:"properties"`
}

// Load reads and parses a machine configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("machine: reading %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses a machine configuration. Configurations are user input;
// problems surface as errors, never panics.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("machine: parsing config: %w", err)
	}

	seen := make(map[string]bool)
	for i, dc := range cfg.Devices {
		if dc.Type == "" {
			return nil, fmt.Errorf("machine: device %d has no type", i)
		}

		if dc.ID == "" {
			return nil, fmt.Errorf("machine: device %d has no id", i)
		}

		if seen[dc.ID] {
			return nil, fmt.Errorf("machine: duplicate device id %q", dc.ID)
		}

		seen[dc.ID] = true
	}

	return &cfg, nil
}
