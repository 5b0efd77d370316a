package config

import (
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Config is the optional YAML scan configuration. Flags and environment
// variables win over it.
type Config struct {
	CatalogueURL string   `yaml:"catalogue_url"`
	CacheTTL     string   `yaml:"cache_ttl"`
	Ignore       []string `yaml:"ignore"`
}

func Load(fs afero.Fs, path string) (Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, xerrors.Errorf("unable to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, xerrors.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.CacheTTL != "" {
		if _, err := time.ParseDuration(cfg.CacheTTL); err != nil {
			return Config{}, xerrors.Errorf("invalid cache_ttl in %s: %w", path, err)
		}
	}
	return cfg, nil
}

// ParsedCacheTTL returns the configured TTL, or zero when unset.
func (c Config) ParsedCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 0
	}
	ttl, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0
	}
	return ttl
}

// Ignored reports whether an advisory ID is on the ignore list.
func (c Config) Ignored(advisoryID string) bool {
	return lo.Contains(c.Ignore, advisoryID)
}
