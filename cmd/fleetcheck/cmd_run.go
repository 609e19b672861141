package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fleetcheck-network/fleetcheck/pkg/catalog"
	"github.com/fleetcheck-network/fleetcheck/pkg/checks"
	"github.com/fleetcheck-network/fleetcheck/pkg/device"
	"github.com/fleetcheck-network/fleetcheck/pkg/inventory"
	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/report"
	"github.com/fleetcheck-network/fleetcheck/pkg/runner"
)

func newRunCmd() *cobra.Command {
	var (
		inventoryPath string
		catalogPath   string
		limit         int
		deviceTimeout time.Duration
		testTimeout   time.Duration
		devices       []string
		tests         []string
		tags          []string
		format        string
		askPass       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the catalog tests against the fleet",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := inventory.Load(inventoryPath)
			if err != nil {
				return err
			}
			entries, err := catalog.Load(catalogPath, checks.Registry())
			if err != nil {
				return err
			}

			var password string
			if askPass {
				fmt.Fprint(os.Stderr, "Device password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("reading password: %w", err)
				}
				password = string(raw)
			}

			fleet := inv.Build(inventory.BuildOptions{Password: password})
			defer closeAll(fleet)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			r := runner.New(runner.Options{
				Limit:         limit,
				DeviceTimeout: deviceTimeout,
				TestTimeout:   testTimeout,
				Devices:       devices,
				Tests:         tests,
				Tags:          tags,
			})
			results := r.Run(ctx, fleet, entries)

			renderer := &report.Renderer{}
			switch format {
			case "table":
				renderer.WriteTable(os.Stdout, results)
			case "csv":
				if err := renderer.WriteCSV(os.Stdout, results); err != nil {
					return err
				}
			case "md", "markdown":
				renderer.WriteMarkdown(os.Stdout, results)
			default:
				return fmt.Errorf("unknown output format %q", format)
			}

			counts := results.Summary()
			if bad := counts[probe.StatusFailure] + counts[probe.StatusError]; bad > 0 {
				return fmt.Errorf("%d of %d tests failed or errored", bad, results.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "", "Inventory file (required)")
	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog file (required)")
	cmd.Flags().IntVar(&limit, "limit", runner.DefaultLimit, "Max devices verified in parallel")
	cmd.Flags().DurationVar(&deviceTimeout, "device-timeout", 2*time.Minute, "Timeout per device session")
	cmd.Flags().DurationVar(&testTimeout, "test-timeout", 30*time.Second, "Timeout per test")
	cmd.Flags().StringSliceVar(&devices, "device", nil, "Only run against these devices")
	cmd.Flags().StringSliceVar(&tests, "test", nil, "Only run these tests")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run catalog entries with these tags")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, csv, md)")
	cmd.Flags().BoolVar(&askPass, "ask-pass", false, "Prompt for a device password overriding the inventory")
	_ = cmd.MarkFlagRequired("inventory")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

// closeAll tears down transports that hold connections.
func closeAll(fleet []device.Device) {
	for _, d := range fleet {
		if c, ok := d.(io.Closer); ok {
			_ = c.Close()
		}
	}
}
