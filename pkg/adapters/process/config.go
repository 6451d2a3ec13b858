package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the generator registry read when no path is given.
const DefaultPath = "generators.yaml"

// GeneratorConfig describes an external program that prints a script.
type GeneratorConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of generators.yaml.
type ConfigFile struct {
	Generators []GeneratorConfig `yaml:"generators" json:"generators"`
}

// LoadGenerators reads a registry file (YAML or JSON) keyed by generator
// name. A missing file yields an empty registry.
func LoadGenerators(path string) (map[string]GeneratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]GeneratorConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read generators config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	out := make(map[string]GeneratorConfig, len(cfg.Generators))
	for _, g := range cfg.Generators {
		if g.Name == "" {
			continue
		}
		out[g.Name] = g
	}
	return out, nil
}
