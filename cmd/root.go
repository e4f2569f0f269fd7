package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/realproc"
	"github.com/procsim/procsim/sim/trace"
	"github.com/procsim/procsim/sim/workload"
)

// Summary formats accepted by --summary.
const (
	summaryText  = "text"
	summaryTable = "table"
)

var (
	// CLI flags for the simulation
	traceFile      string // Path to the process trace
	schedulerName  string // "SJF" or "RR"
	memoryStrategy string // "infinite" or "best-fit"
	quantum        int64  // Time units per cycle
	memorySize     int    // Allocation units in the best-fit pool
	configPath     string // Optional YAML config; explicit flags win
	summaryFormat  string // "text" or "table"
	resultsPrefix  string // Export <prefix>.yaml and <prefix>.csv when set
	logLevel       string // Log verbosity level

	// CLI flags for real-process mode
	realProcesses    bool          // Mirror every simulated process onto an OS process
	processCommand   []string      // Subordinate program; the process name is appended
	handshakeTimeout time.Duration // Bound on every wait for a subordinate
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Time-stepped simulator for CPU scheduling and memory allocation",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduling simulation over a process trace",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if summaryFormat != summaryText && summaryFormat != summaryTable {
			logrus.Fatalf("Invalid summary format %q (want %s or %s)", summaryFormat, summaryText, summaryTable)
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cfg.TraceFile == "" {
			logrus.Fatalf("Trace file not provided. Use --file or trace_file in --config.")
		}

		procs, err := workload.LoadTrace(cfg.TraceFile)
		if err != nil {
			logrus.Fatalf("Failed to load trace %s: %v", cfg.TraceFile, err)
		}

		logrus.Infof("Starting simulation: scheduler=%s, memory=%s, quantum=%d, processes=%d, real processes=%v",
			cfg.Scheduler, cfg.MemoryStrategy, cfg.Quantum, len(procs), cfg.RealProcess.Enabled)

		// nil leaves mirroring off; a typed nil would not.
		// Fatalf skips deferred calls, so subordinates are closed explicitly.
		var controller sim.ProcessController
		var closer func()
		if cfg.RealProcess.Enabled {
			c := realproc.NewController(cfg.RealProcess.Command, cfg.RealProcess.HandshakeTimeout)
			controller = c
			closer = c.Close
		}
		fatalf := func(format string, args ...any) {
			closeThenFatalf(closer, format, args...)
		}

		st := trace.NewSimulationTrace()
		s, err := sim.NewSimulator(cfg, procs, trace.NewEventLog(os.Stdout, st), controller)
		if err != nil {
			fatalf("Failed to create simulator: %v", err)
		}

		startTime := time.Now()
		if err := s.Run(context.Background()); err != nil {
			fatalf("Simulation failed: %v", err)
		}

		summary := trace.Summarize(st)
		logrus.Infof("Simulation complete in %v: %d events, %d dispatches, %d preemptions, peak memory %d%%",
			time.Since(startTime), summary.TotalEvents, summary.Dispatches, summary.Preemptions, s.Metrics.PeakMemoryUsage)

		if err := printSummary(s.Metrics, summaryFormat); err != nil {
			fatalf("Failed to write summary: %v", err)
		}

		if resultsPrefix != "" {
			header := &workload.ResultsHeader{
				Version:         workload.ResultsVersion,
				TraceFile:       cfg.TraceFile,
				Scheduler:       cfg.Scheduler,
				MemoryStrategy:  cfg.MemoryStrategy,
				Quantum:         cfg.Quantum,
				MemorySize:      cfg.MemorySize,
				RealProcesses:   cfg.RealProcess.Enabled,
				Makespan:        s.Metrics.Makespan,
				PeakMemoryUsage: s.Metrics.PeakMemoryUsage,
			}
			if err := workload.ExportResults(header, s.Metrics.Completions, resultsPrefix+".yaml", resultsPrefix+".csv"); err != nil {
				fatalf("Failed to export results: %v", err)
			}
			logrus.Infof("Results written to %s.yaml and %s.csv", resultsPrefix, resultsPrefix)
		}
		if closer != nil {
			closer()
		}
	},
}

// closeThenFatalf runs closer, if any, before logging the error and exiting.
func closeThenFatalf(closer func(), format string, args ...any) {
	if closer != nil {
		closer()
	}
	logrus.Fatalf(format, args...)
}

// printSummary writes the final statistics to stdout in the chosen format.
func printSummary(m *sim.Metrics, format string) error {
	if format == summaryTable {
		return m.PrintTable(os.Stdout)
	}
	return m.Print(os.Stdout)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to the package-level variables,
// resetting each to its default.
func registerRunFlags(cmd *cobra.Command) {
	defaults := sim.DefaultSimConfig()

	cmd.Flags().StringVarP(&traceFile, "file", "f", "", "Path to the process trace (arrival name service memory per line)")
	cmd.Flags().StringVarP(&schedulerName, "scheduler", "s", defaults.Scheduler, "Scheduling policy (SJF, RR)")
	cmd.Flags().StringVarP(&memoryStrategy, "memory-strategy", "m", defaults.MemoryStrategy, "Memory strategy (infinite, best-fit)")
	cmd.Flags().Int64VarP(&quantum, "quantum", "q", defaults.Quantum, "Time units per cycle")
	cmd.Flags().IntVar(&memorySize, "memory-size", defaults.MemorySize, "Allocation units in the best-fit memory pool")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML simulation config; explicitly set flags override it")
	cmd.Flags().StringVar(&summaryFormat, "summary", summaryText, "Summary format (text, table)")
	cmd.Flags().StringVar(&resultsPrefix, "results", "", "Export per-process results to <prefix>.yaml and <prefix>.csv")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Real-process mode
	cmd.Flags().BoolVar(&realProcesses, "real-processes", false, "Mirror each simulated process onto a subordinate OS process")
	cmd.Flags().StringSliceVar(&processCommand, "process-cmd", nil, "Subordinate command, comma-separated (default: this binary's process subcommand)")
	cmd.Flags().DurationVar(&handshakeTimeout, "handshake-timeout", defaults.RealProcess.HandshakeTimeout, "Bound on every wait for a subordinate process")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
