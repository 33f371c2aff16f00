package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// applyYAMLFile overlays the YAML file at path onto cfg. Keys missing from the
// file keep their current values. A missing file is not an error.
func applyYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
