package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scenarioFile is the YAML document shape for a custom scenario.
type scenarioFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads a scenario table from a YAML file. The file fully
// replaces the built-in table — it is not merged with it.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}

	var doc scenarioFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("scenario: %s contains no rules", path)
	}

	reg, err := NewRegistry(doc.Rules)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return reg, nil
}
