package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim/workload"
)

var genConfig workload.GeneratorConfig

// generateCmd writes a synthetic trace to stdout for piping into `run -f`.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic process trace",
	Long:  "Generate a reproducible process trace with Poisson arrivals, clamped Gaussian service times and uniform memory requirements. Output is written to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		procs, err := workload.Generate(genConfig)
		if err != nil {
			logrus.Fatalf("Invalid generator config: %v", err)
		}
		if err := workload.WriteTrace(os.Stdout, procs); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func init() {
	generateCmd.Flags().Int64Var(&genConfig.Seed, "seed", 42, "Seed for trace generation")
	generateCmd.Flags().IntVarP(&genConfig.NumProcesses, "processes", "n", 20, "Number of processes")
	generateCmd.Flags().Float64Var(&genConfig.MeanInterarrival, "mean-interarrival", 5, "Mean time between arrivals (0 = all arrive at time 0)")
	generateCmd.Flags().Int64Var(&genConfig.ServiceMean, "service-mean", 10, "Average service time")
	generateCmd.Flags().Int64Var(&genConfig.ServiceStdev, "service-stdev", 5, "Stddev service time")
	generateCmd.Flags().Int64Var(&genConfig.ServiceMin, "service-min", 1, "Min service time")
	generateCmd.Flags().Int64Var(&genConfig.ServiceMax, "service-max", 50, "Max service time")
	generateCmd.Flags().IntVar(&genConfig.MemoryMin, "memory-min", 0, "Min memory requirement")
	generateCmd.Flags().IntVar(&genConfig.MemoryMax, "memory-max", 256, "Max memory requirement")

	rootCmd.AddCommand(generateCmd)
}
