// cmd/edmsim/config.go
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Sim SimConfig `yaml:"sim"`
}

type SimConfig struct {
	StepFrequencyHz uint32          `yaml:"step_frequency_hz"`
	TemperatureC    uint8           `yaml:"temperature_c"`
	Telemetry       bool            `yaml:"telemetry"`
	Fault           FaultConfig     `yaml:"fault"`
	Discharge       DischargeConfig `yaml:"discharge"`
}

// FaultConfig injects transport failures into the simulated device.
type FaultConfig struct {
	Absent         bool `yaml:"absent"`           // nothing at the address, reads float high
	BusDead        bool `yaml:"bus_dead"`         // every transfer fails
	FailAfterReads int  `yaml:"fail_after_reads"` // transfers fail after N status reads (0 = never)
}

// DischargeConfig shapes the synthetic gap behaviour while energized.
type DischargeConfig struct {
	PulsesPerSample uint8 `yaml:"pulses_per_sample"`
	ShortEvery      int   `yaml:"short_every"` // every Nth sample reads a hard short (0 = never)
}

// DefaultConfig is the healthy-device setup used when no file is given.
func DefaultConfig() *Config {
	return &Config{Sim: SimConfig{
		StepFrequencyHz: 20000,
		TemperatureC:    25,
		Telemetry:       true,
		Discharge:       DischargeConfig{PulsesPerSample: 3},
	}}
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate.
func Validate(cfg *Config) error {
	if cfg.Sim.StepFrequencyHz == 0 {
		return fmt.Errorf("sim.step_frequency_hz must be positive")
	}
	if cfg.Sim.TemperatureC == 0xFF {
		return fmt.Errorf("sim.temperature_c 255 is reserved for the absent-device fault")
	}
	if cfg.Sim.Fault.FailAfterReads < 0 {
		return fmt.Errorf("sim.fault.fail_after_reads must not be negative")
	}
	if cfg.Sim.Discharge.ShortEvery < 0 {
		return fmt.Errorf("sim.discharge.short_every must not be negative")
	}
	return nil
}
