package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the application
type Config struct {
	Manifest    string `koanf:"manifest"`     // path to the workspace Cargo.toml
	AllFeatures bool   `koanf:"all-features"` // pass --all-features to cargo metadata
	Locked      bool   `koanf:"locked"`       // require an up-to-date Cargo.lock
	Offline     bool   `koanf:"offline"`      // forbid network access during the metadata query
	WebMode     bool   `koanf:"web"`
	Port        int    `koanf:"port"`
	Watch       bool   `koanf:"watch"`
	JSONLog     bool   `koanf:"json-log"`
	Verbosity   string `koanf:"verbosity"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"manifest":     "Cargo.toml",
		"all-features": true,
		"locked":       false,
		"offline":      false,
		"web":          false,
		"port":         8080,
		"watch":        false,
		"json-log":     false,
		"verbosity":    "",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - cratewatch.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("cratewatch.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: CRATEWATCH_ (e.g., CRATEWATCH_PORT=9090, CRATEWATCH_ALL_FEATURES=false)
	if err := k.Load(env.Provider("CRATEWATCH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "CRATEWATCH_")), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
