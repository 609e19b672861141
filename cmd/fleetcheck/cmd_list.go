package main

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetcheck-network/fleetcheck/pkg/checks"
	"github.com/fleetcheck-network/fleetcheck/pkg/report"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available test definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := checks.Registry()
			ids := make([]string, 0, len(reg))
			for id := range reg {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			t := report.NewTable(os.Stdout, "Test", "Categories")
			for _, id := range ids {
				test, err := reg[id](nil)
				if err != nil {
					return err
				}
				t.Row(id, strings.Join(test.Categories(), ", "))
			}
			t.Flush()
			return nil
		},
	}
}
