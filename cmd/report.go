package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/workload"
)

var (
	reportPrefix string
	reportFormat string
)

// reportCmd re-renders the summary of a run exported with `run --results`.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the summary of previously exported results",
	Run: func(cmd *cobra.Command, args []string) {
		if reportFormat != summaryText && reportFormat != summaryTable {
			logrus.Fatalf("Invalid summary format %q (want %s or %s)", reportFormat, summaryText, summaryTable)
		}
		results, err := workload.LoadResults(reportPrefix+".yaml", reportPrefix+".csv")
		if err != nil {
			logrus.Fatalf("Failed to load results %s: %v", reportPrefix, err)
		}
		logrus.Infof("Results of %s: scheduler=%s, memory=%s, quantum=%d",
			results.Header.TraceFile, results.Header.Scheduler, results.Header.MemoryStrategy, results.Header.Quantum)

		if err := printSummary(metricsFromResults(results), reportFormat); err != nil {
			logrus.Fatalf("Failed to write summary: %v", err)
		}
	},
}

// metricsFromResults rebuilds the aggregate metrics of an exported run.
func metricsFromResults(results *workload.Results) *sim.Metrics {
	m := sim.NewMetrics()
	for _, r := range results.Records {
		m.RecordResult(r)
	}
	m.Makespan = results.Header.Makespan
	m.RecordMemoryUsage(results.Header.PeakMemoryUsage)
	return m
}

func init() {
	reportCmd.Flags().StringVar(&reportPrefix, "results", "", "Prefix of the exported <prefix>.yaml and <prefix>.csv")
	reportCmd.Flags().StringVar(&reportFormat, "summary", summaryText, "Summary format (text, table)")
	_ = reportCmd.MarkFlagRequired("results")

	rootCmd.AddCommand(reportCmd)
}
