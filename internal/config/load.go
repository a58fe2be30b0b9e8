package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Load for an unsupported file extension.
var ErrUnknownFormat = errors.New("unknown configuration format")

// fileConfig is the on-disk shape. Absent keys keep the Default values.
type fileConfig struct {
	Version           string `toml:"version" yaml:"version"`
	StructMappingKeys *bool  `toml:"struct_mapping_keys" yaml:"struct_mapping_keys"`
	StrictShadowing   *bool  `toml:"strict_shadowing" yaml:"strict_shadowing"`
	CheckPragma       *bool  `toml:"check_pragma" yaml:"check_pragma"`
	MaxDiagnostics    *int   `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) configuration file.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration text; ext selects the format (".toml", ".yaml", ".yml").
func Parse(data []byte, ext string) (Config, error) {
	var fc fileConfig
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return fc.apply(Default())
}

func (fc fileConfig) apply(cfg Config) (Config, error) {
	if fc.Version != "" {
		v, err := ParseVersion(fc.Version)
		if err != nil {
			return Config{}, err
		}
		cfg.Version = v
	}
	if fc.StructMappingKeys != nil {
		cfg.StructMappingKeys = *fc.StructMappingKeys
	}
	if fc.StrictShadowing != nil {
		cfg.StrictShadowing = *fc.StrictShadowing
	}
	if fc.CheckPragma != nil {
		cfg.CheckPragma = *fc.CheckPragma
	}
	if fc.MaxDiagnostics != nil {
		if *fc.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("max_diagnostics must not be negative, got %d", *fc.MaxDiagnostics)
		}
		cfg.MaxDiagnostics = *fc.MaxDiagnostics
	}
	return cfg, nil
}
