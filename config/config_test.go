package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coredb.yaml")
	contents := "endpoint: rocksdb:///var/lib/coredb\nstrict: true\ncapabilities:\n  network_allowed: false\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint != "rocksdb:///var/lib/coredb" {
		t.Fatalf("unexpected endpoint: %s", cfg.Endpoint)
	}
	if !cfg.Strict {
		t.Fatal("expected strict override to apply")
	}
	if cfg.CacheSizeMB != 128 {
		t.Fatalf("expected the default cache size to survive a partial override, got %d", cfg.CacheSizeMB)
	}
	if cfg.Capabilities.NetworkAllowed {
		t.Fatal("expected network_allowed override to apply")
	}
	if !cfg.Capabilities.ScriptingAllowed {
		t.Fatal("expected scripting_allowed to keep its default")
	}
}

func TestParseEndpointAppliesConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Endpoint = "speedb:///tmp/coredb"
	cfg.CacheSizeMB = 256

	ep, err := cfg.ParseEndpoint()
	if err != nil {
		t.Fatalf("ParseEndpoint: %v", err)
	}
	if ep.Config.CacheSizeMB != 256 {
		t.Fatalf("expected the cache size to carry over, got %d", ep.Config.CacheSizeMB)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/coredb.yaml"); err == nil {
		t.Fatal("expected a missing file to error")
	}
}
