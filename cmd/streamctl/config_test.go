package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
node_id = "streamctl.lab"
addr = "127.0.0.1:9301"
cors_origins = ["http://localhost:3000"]

[device]
name = "bringup-a"
native_privilege_control = true
queue_count = 8
memstore_base = 0x80000000
setstate_base = 0x80010000
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NodeID != "streamctl.lab" {
		t.Fatalf("unexpected node id: %q", cfg.NodeID)
	}
	if cfg.ListenAddr != "127.0.0.1:9301" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.Profile.Name != "bringup-a" {
		t.Fatalf("unexpected device name: %q", cfg.Profile.Name)
	}
	if !cfg.Profile.NativePrivilegeControl {
		t.Fatalf("native privilege control override lost")
	}
	if cfg.Profile.QueueCount != 8 {
		t.Fatalf("unexpected queue count: %d", cfg.Profile.QueueCount)
	}
	// Keys absent from the file keep defaults.
	if cfg.Profile.InflightSwitches != 2 {
		t.Fatalf("inflight default lost: %d", cfg.Profile.InflightSwitches)
	}
}

func TestLoadServiceConfigExternalProfile(t *testing.T) {
	dir := t.TempDir()

	profilePath := filepath.Join(dir, "device.toml")
	profile := `
name = "bench0"
queue_count = 2
memstore_base = 0x90000000
setstate_base = 0x90010000
`
	if err := os.WriteFile(profilePath, []byte(profile), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	path := filepath.Join(dir, "config.toml")
	content := "device_profile = \"" + profilePath + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Profile.Name != "bench0" || cfg.Profile.QueueCount != 2 {
		t.Fatalf("external profile not loaded: %+v", cfg.Profile)
	}
}

func TestLoadServiceConfigRejectsInvalidProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[device]
queue_count = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("invalid profile accepted")
	}
}
