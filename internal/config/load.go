// internal/config/load.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// TemplateIP marks the placeholder gateway written into a fresh file.
const TemplateIP = "template"

// Default returns the configuration written when the file is absent:
// one template gateway with no station ids, which expands to no endpoints.
func Default() *Config {
	return &Config{
		Gateways: []GatewayConfig{
			{
				IP:       TemplateIP,
				Port:     502,
				SlaveIDs: []uint8{},
			},
		},
	}
}

// Load reads the descriptor file at path.
// If the file does not exist, Default() is written there and returned.
// The second return reports whether the file was created.
func Load(path string) (*Config, bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		def := Default()
		if err := write(path, def); err != nil {
			return nil, false, err
		}
		return def, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, false, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, false, nil
}

func write(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode default: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}
