package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Save marshals the Config to YAML and writes it to the specified path.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
