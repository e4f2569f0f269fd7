package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim"
)

// resolveConfig builds the simulation config: defaults, then --config, then
// every flag the user set explicitly. Flag defaults never override file
// values, so callers must go through Changed rather than the bound variables.
func resolveConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	if configPath != "" {
		loaded, err := sim.LoadSimConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.TraceFile = traceFile
	}
	if flags.Changed("scheduler") {
		cfg.Scheduler = schedulerName
	}
	if flags.Changed("memory-strategy") {
		cfg.MemoryStrategy = memoryStrategy
	}
	if flags.Changed("quantum") {
		cfg.Quantum = quantum
	}
	if flags.Changed("memory-size") {
		cfg.MemorySize = memorySize
	}
	if flags.Changed("real-processes") {
		cfg.RealProcess.Enabled = realProcesses
	}
	if flags.Changed("process-cmd") {
		cfg.RealProcess.Command = processCommand
	}
	if flags.Changed("handshake-timeout") {
		cfg.RealProcess.HandshakeTimeout = handshakeTimeout
	}
	if cfg.RealProcess.Enabled && len(cfg.RealProcess.Command) == 0 {
		cfg.RealProcess.Command = defaultProcessCommand()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// defaultProcessCommand runs this binary's own `process` subcommand.
func defaultProcessCommand() []string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return []string{exe, processCmd.Name()}
}
