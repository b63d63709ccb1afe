package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

// LoadConfig reads an engine configuration file. Absent fields keep their
// defaults; validation happens at engine construction, not here.
func LoadConfig(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
