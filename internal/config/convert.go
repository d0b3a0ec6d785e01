package config

import "github.com/mveld/ringctl/internal/device"

// DeviceConfig maps a loaded profile onto the device constructor input.
func DeviceConfig(cfg DeviceProfile) device.Config {
	return device.Config{
		Name:                   cfg.Name,
		NativePrivilegeControl: cfg.NativePrivilegeControl,
		PerfcountersActive:     cfg.PerfcountersActive,
		QueueCount:             cfg.QueueCount,
		MemstoreBase:           cfg.MemstoreBase,
		SetstateBase:           cfg.SetstateBase,
	}
}
