package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"heavy_payload": func() *Config {
		c := DefaultConfig()
		c.Arm.PayloadMass = 12
		c.Arm.MotorTorque = 40
		return c
	},
	"long_reach": func() *Config {
		c := DefaultConfig()
		c.Arm.LinkLengths = [3]float64{0.9, 0.8, 0.6}
		c.Arm.PayloadMass = 2
		return c
	},
	"fast_sweep": func() *Config {
		c := DefaultConfig()
		c.Motion.Frequency = 1.0
		c.Arm.JointVelocities = [3]float64{30, 45, 30}
		c.Run.Interval = 0.02
		c.Run.Duration = 5
		return c
	},
	"low_battery": func() *Config {
		c := DefaultConfig()
		c.Arm.BatteryCapacity = 50
		c.Run.Duration = 60
		return c
	},
}

// GetPreset returns a fresh copy of the named preset.
func GetPreset(name string) (*Config, error) {
	fn, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return fn(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
