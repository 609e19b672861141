package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetcheck-network/fleetcheck/pkg/util"
	"github.com/fleetcheck-network/fleetcheck/pkg/version"
)

var logLevelFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleetcheck",
		Short: "Read-only verification of network device fleets",
		Long: `Fleetcheck runs declarative verification tests against a fleet of
network devices and reports the results.

An inventory file lists the devices and how to reach them; a catalog file
lists the tests to run and their parameters.

  fleetcheck run -i inventory.yaml -c catalog.yaml
  fleetcheck run -i inventory.yaml -c catalog.yaml --tags leaf --format csv
  fleetcheck list`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return util.SetLogLevel(logLevelFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warning", "Log level (debug, info, warning, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("fleetcheck %s\n", version.Info())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
