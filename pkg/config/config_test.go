package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	want := DefaultConfig()
	if cfg.Server != want.Server || cfg.Engine != want.Engine || cfg.CLI != want.CLI {
		t.Errorf("InitConfig = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nmax_args = 8\n\n[engine]\nindex_dir = \"/opt/decls\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.MaxArgs != 8 {
		t.Errorf("MaxArgs = %d, want 8", cfg.Server.MaxArgs)
	}
	if cfg.Engine.IndexDir != "/opt/decls" {
		t.Errorf("IndexDir = %q", cfg.Engine.IndexDir)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.MaxBufferBytes != DefaultConfig().Server.MaxBufferBytes {
		t.Errorf("MaxBufferBytes = %d, want default", cfg.Server.MaxBufferBytes)
	}
}

func TestLoadConfigMalformedFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nnope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Server.MaxTypeNames = 5
	cfg.Engine.ModuleName = "app"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Server.MaxTypeNames != 5 || loaded.Engine.ModuleName != "app" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestUpdatePersistsServerLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}

	maxArgs := 16
	if err := cfg.Update(path, nil, &maxArgs, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.MaxArgs != 16 {
		t.Errorf("MaxArgs = %d, want 16", loaded.Server.MaxArgs)
	}
	if loaded.Server.MaxBufferBytes != cfg.Server.MaxBufferBytes {
		t.Errorf("Update clobbered MaxBufferBytes")
	}
}
