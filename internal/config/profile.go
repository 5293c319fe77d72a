package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// LoadProfile reads a hygiene profile from YAML (or JSON). An empty path
// returns the default profile. Unknown keys are rejected.
func LoadProfile(path string) (models.Profile, error) {
	if path == "" {
		return models.DefaultProfile(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes and validates profile YAML
func ParseProfile(data []byte) (models.Profile, error) {
	var p models.Profile
	if err := yaml.UnmarshalWithOptions(data, &p, yaml.Strict()); err != nil {
		return models.Profile{}, fmt.Errorf("invalid profile: %w", err)
	}

	known := make(map[string]bool, len(constants.InsightOrder))
	for _, name := range constants.InsightOrder {
		known[name] = true
	}
	for name, w := range p.Weights {
		if !known[name] {
			return models.Profile{}, fmt.Errorf("invalid profile: unknown insight %q in weights", name)
		}
		if w < 0 {
			return models.Profile{}, fmt.Errorf("invalid profile: weight for %q is negative", name)
		}
	}
	for i, r := range p.Rules {
		if r.Name == "" {
			return models.Profile{}, fmt.Errorf("invalid profile: rule %d has no name", i)
		}
	}
	if p.Dedupe.Threshold > 100 {
		return models.Profile{}, fmt.Errorf("invalid profile: dedupe threshold %d exceeds 100", p.Dedupe.Threshold)
	}

	return p.WithDefaults(), nil
}
