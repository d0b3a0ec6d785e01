package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DeviceProfile describes one target device to the compiler: capability
// flags and the fixed memory regions switch streams reference.
type DeviceProfile struct {
	Name                   string `toml:"name"`
	NativePrivilegeControl bool   `toml:"native_privilege_control"`
	PerfcountersActive     bool   `toml:"perfcounters_active"`
	QueueCount             int    `toml:"queue_count"`
	MemstoreBase           uint64 `toml:"memstore_base"`
	SetstateBase           uint64 `toml:"setstate_base"`
	InflightSwitches       int    `toml:"inflight_switches"`
}

func LoadDeviceProfile(path string) (DeviceProfile, error) {
	var cfg DeviceProfile
	if err := loadToml(path, &cfg); err != nil {
		return DeviceProfile{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "sim0"
	}
	if cfg.QueueCount == 0 {
		cfg.QueueCount = 4
	}
	if cfg.InflightSwitches == 0 {
		cfg.InflightSwitches = 2
	}
	if err := ValidateDeviceProfile(cfg); err != nil {
		return DeviceProfile{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateDeviceProfile(cfg DeviceProfile) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("device profile missing name")
	}
	if cfg.QueueCount < 1 {
		return fmt.Errorf("device profile queue_count must be at least 1")
	}
	if cfg.InflightSwitches < 1 {
		return fmt.Errorf("device profile inflight_switches must be at least 1")
	}
	if cfg.MemstoreBase == 0 {
		return fmt.Errorf("device profile missing memstore_base")
	}
	if cfg.SetstateBase == 0 {
		return fmt.Errorf("device profile missing setstate_base")
	}
	if cfg.MemstoreBase%4 != 0 || cfg.SetstateBase%4 != 0 {
		return fmt.Errorf("device profile region bases must be word aligned")
	}
	return nil
}
