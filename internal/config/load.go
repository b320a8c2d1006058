package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides for LoadFile, e.g.
// TRAILFIRE__FIRES__RADIUS_MILES=25
const EnvPrefix = "TRAILFIRE__"

// Unmarshaler is satisfied by prefab.Config and any *koanf.Koanf
type Unmarshaler interface {
	Unmarshal(path string, o any) error
}

// Load overlays each configuration section from src on top of the defaults.
// A trails list in src replaces the default catalogue entirely.
func Load(src Unmarshaler) (*Config, error) {
	cfg := DefaultConfig()

	sections := []struct {
		path string
		out  any
	}{
		{"fires", &cfg.Fires},
		{"borders", &cfg.Borders},
		{"sms", &cfg.SMS},
	}
	for _, s := range sections {
		if err := src.Unmarshal(s.path, s.out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s section: %w", s.path, err)
		}
	}

	var trails []TrailConfig
	if err := src.Unmarshal("trails", &trails); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trails section: %w", err)
	}
	if len(trails) > 0 {
		cfg.Trails = trails
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a YAML file, applies TRAILFIRE__ environment overrides and
// overlays the result on the defaults. An empty path uses only the
// environment.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	return Load(k)
}
