package cmd

import (
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/procsim/procsim/sim/realproc"
)

// processCmd is the subordinate program mirrored by `run --real-processes`.
// Stdin and stdout carry the handshake, so it must never print to stdout.
var processCmd = &cobra.Command{
	Use:    "process <name>",
	Short:  "Run as a subordinate process driven by the simulator",
	Args:   cobra.ExactArgs(1),
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		signals := make(chan os.Signal, 8)
		signal.Notify(signals, unix.SIGTSTP, unix.SIGCONT, unix.SIGTERM)
		if err := realproc.Serve(args[0], os.Stdin, os.Stdout, signals, realproc.StopSelf); err != nil {
			logrus.Fatalf("Subordinate %s: %v", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
