package sim

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultHandshakeTimeout bounds every blocking wait on a mirrored OS process.
const DefaultHandshakeTimeout = 5 * time.Second

// SimConfig holds the simulation configuration, loadable from a YAML file.
type SimConfig struct {
	Scheduler      string `yaml:"scheduler"`       // "SJF" or "RR"
	MemoryStrategy string `yaml:"memory_strategy"` // "infinite" or "best-fit"
	Quantum        int64  `yaml:"quantum"`         // time units per cycle (must be > 0)
	MemorySize     int    `yaml:"memory_size"`     // allocation units in the pool (best-fit)
	TraceFile      string `yaml:"trace_file"`

	RealProcess RealProcessConfig `yaml:"real_process"`
}

// RealProcessConfig groups the real-process mode settings.
type RealProcessConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Command          []string      `yaml:"command"`           // subordinate program; the process name is appended
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"` // e.g. "5s"
}

// DefaultSimConfig returns the configuration used when nothing is set.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Scheduler:      SchedulerSJF,
		MemoryStrategy: MemoryInfinite,
		Quantum:        1,
		MemorySize:     DefaultMemorySize,
		RealProcess: RealProcessConfig{
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
	}
}

// LoadSimConfig reads a YAML configuration file on top of the defaults.
// Unknown keys are rejected so typos surface as errors.
func LoadSimConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading simulation config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every setting names a known policy and is in range.
func (c SimConfig) Validate() error {
	if !IsValidScheduler(c.Scheduler) {
		return fmt.Errorf("unknown scheduler %q", c.Scheduler)
	}
	if !ValidMemoryStrategies[c.MemoryStrategy] {
		return fmt.Errorf("unknown memory strategy %q", c.MemoryStrategy)
	}
	if c.Quantum <= 0 {
		return fmt.Errorf("quantum must be positive, got %d", c.Quantum)
	}
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory_size must be positive, got %d", c.MemorySize)
	}
	if c.RealProcess.Enabled {
		if len(c.RealProcess.Command) == 0 {
			return fmt.Errorf("real_process.command must not be empty")
		}
		if c.RealProcess.HandshakeTimeout <= 0 {
			return fmt.Errorf("real_process.handshake_timeout must be positive, got %v", c.RealProcess.HandshakeTimeout)
		}
	}
	return nil
}
