package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// settings are the options that may come from a config file.
type settings struct {
	Table   string            `toml:"table" yaml:"table"`
	Prec    uint              `toml:"prec" yaml:"prec"`
	Pattern string            `toml:"pattern" yaml:"pattern"`
	Vars    map[string]string `toml:"vars" yaml:"vars"`
}

// readSettings loads a config file, choosing TOML or YAML by extension.
func readSettings(path string) (*settings, error) {
	path = os.ExpandEnv(path)
	var s settings
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &s); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unknown extension %q (want .toml, .yaml, or .yml)", path, ext)
	}
	return &s, nil
}
