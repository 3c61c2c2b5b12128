// Package commons holds small helpers shared across modules.
package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"radagast/internal/config"
)

// LoadConfigFile overlays a YAML config file on top of an already loaded
// configuration. Environment variables stay authoritative for anything the
// file does not set, so the file only needs the keys it wants to pin.
func LoadConfigFile(path string, cfg *config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return cfg.Validate()
}
