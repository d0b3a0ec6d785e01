package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mveld/ringctl/internal/config"
	"github.com/mveld/ringctl/internal/streamd"
)

// streamctl config.toml key mapping to daemon runtime settings.
type fileConfig struct {
	NodeID            string   `toml:"node_id"`
	Addr              string   `toml:"addr"`
	CorsOrigins       []string `toml:"cors_origins"`
	DeviceProfilePath string   `toml:"device_profile"`

	// Inline device profile, used when device_profile is not set.
	Device deviceConfig `toml:"device"`
}

type deviceConfig struct {
	Name                   string `toml:"name"`
	NativePrivilegeControl bool   `toml:"native_privilege_control"`
	PerfcountersActive     bool   `toml:"perfcounters_active"`
	QueueCount             int    `toml:"queue_count"`
	MemstoreBase           uint64 `toml:"memstore_base"`
	SetstateBase           uint64 `toml:"setstate_base"`
	InflightSwitches       int    `toml:"inflight_switches"`
}

// streamctl loader for TOML config with default overlay.
func loadServiceConfig(path string) (streamd.ServiceConfig, error) {
	cfg := streamd.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return streamd.ServiceConfig{}, fmt.Errorf("load streamctl config: %w", err)
	}

	if meta.IsDefined("node_id") {
		id := strings.TrimSpace(raw.NodeID)
		if id != "" {
			cfg.NodeID = id
		}
	}
	if meta.IsDefined("addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	if meta.IsDefined("device_profile") {
		profile, err := config.LoadDeviceProfile(strings.TrimSpace(raw.DeviceProfilePath))
		if err != nil {
			return streamd.ServiceConfig{}, err
		}
		cfg.Profile = profile
		return cfg, nil
	}

	if meta.IsDefined("device", "name") {
		cfg.Profile.Name = strings.TrimSpace(raw.Device.Name)
	}
	if meta.IsDefined("device", "native_privilege_control") {
		cfg.Profile.NativePrivilegeControl = raw.Device.NativePrivilegeControl
	}
	if meta.IsDefined("device", "perfcounters_active") {
		cfg.Profile.PerfcountersActive = raw.Device.PerfcountersActive
	}
	if meta.IsDefined("device", "queue_count") {
		cfg.Profile.QueueCount = raw.Device.QueueCount
	}
	if meta.IsDefined("device", "memstore_base") {
		cfg.Profile.MemstoreBase = raw.Device.MemstoreBase
	}
	if meta.IsDefined("device", "setstate_base") {
		cfg.Profile.SetstateBase = raw.Device.SetstateBase
	}
	if meta.IsDefined("device", "inflight_switches") {
		cfg.Profile.InflightSwitches = raw.Device.InflightSwitches
	}

	if err := config.ValidateDeviceProfile(cfg.Profile); err != nil {
		return streamd.ServiceConfig{}, err
	}
	return cfg, nil
}
