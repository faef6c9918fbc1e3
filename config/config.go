// Package config loads the YAML-sourced sidecar that configures an
// embedded storage endpoint: cache sizing, strict mode, and the
// capability toggles threaded into dbs.Options.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/driftdb/core/capabilities"
	"github.com/driftdb/core/engine"
)

// Config is the on-disk shape of an engine.Config plus the storage
// endpoint it applies to.
type Config struct {
	Endpoint     string             `yaml:"endpoint"`
	CacheSizeMB  int                `yaml:"cache_size_mb"`
	Strict       bool               `yaml:"strict"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
}

// CapabilitiesConfig mirrors capabilities.Capabilities field-for-field
// for YAML round-tripping.
type CapabilitiesConfig struct {
	ScriptingAllowed bool `yaml:"scripting_allowed"`
	NetworkAllowed   bool `yaml:"network_allowed"`
	FuturesAllowed   bool `yaml:"futures_allowed"`
	GuestAccess      bool `yaml:"guest_access"`
}

func defaultConfig() Config {
	return Config{
		Endpoint:    "file:///var/lib/coredb",
		CacheSizeMB: 128,
		Capabilities: CapabilitiesConfig{
			ScriptingAllowed: true,
			NetworkAllowed:   true,
			FuturesAllowed:   true,
			GuestAccess:      true,
		},
	}
}

// Load reads a YAML config file, applying defaultConfig for any field
// the file doesn't set.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ToCapabilities converts the YAML-sourced capability toggles into the
// runtime capabilities.Capabilities value.
func (c Config) ToCapabilities() capabilities.Capabilities {
	return capabilities.Capabilities{
		ScriptingAllowed: c.Capabilities.ScriptingAllowed,
		NetworkAllowed:   c.Capabilities.NetworkAllowed,
		FuturesAllowed:   c.Capabilities.FuturesAllowed,
		GuestAccess:      c.Capabilities.GuestAccess,
	}
}

// ParseEndpoint resolves the configured endpoint URL and applies the
// cache/strict/capability settings onto its engine.Config sidecar.
func (c Config) ParseEndpoint() (engine.Endpoint, error) {
	ep, err := engine.ParseEndpoint(c.Endpoint)
	if err != nil {
		return engine.Endpoint{}, err
	}
	return ep.WithConfig(engine.Config{
		CacheSizeMB:  c.CacheSizeMB,
		Strict:       c.Strict,
		Capabilities: c.ToCapabilities(),
	}), nil
}
