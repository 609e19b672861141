package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/runner"
)

// Renderer writes a result collection in one output format.
type Renderer struct {
	// Acronyms controls category-label casing; nil means DefaultAcronyms.
	Acronyms []string
}

func (r *Renderer) acronyms() []string {
	if r.Acronyms == nil {
		return DefaultAcronyms
	}
	return r.Acronyms
}

// WriteTable renders an aligned text table plus a summary line.
func (r *Renderer) WriteTable(w io.Writer, results *runner.Results) {
	t := NewTable(w, "Device", "Test", "Categories", "Status", "Duration", "Messages")
	for _, res := range results.All() {
		t.Row(
			res.Device,
			res.Test,
			FormatCategories(res.Categories, r.acronyms()),
			colorStatus(res.Status()),
			res.Duration().Round(time.Millisecond).String(),
			strings.Join(res.Messages(), "; "),
		)
	}
	t.Flush()
	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryLine(results))
}

// WriteCSV renders one record per result. Messages are joined with "; ".
func (r *Renderer) WriteCSV(w io.Writer, results *runner.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"device", "test", "categories", "status", "duration_ms", "messages"}); err != nil {
		return err
	}
	for _, res := range results.All() {
		record := []string{
			res.Device,
			res.Test,
			FormatCategories(res.Categories, r.acronyms()),
			string(res.Status()),
			strconv.FormatInt(res.DurationMs(), 10),
			strings.Join(res.Messages(), "; "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown renders a summary section and a per-device result table.
func (r *Renderer) WriteMarkdown(w io.Writer, results *runner.Results) {
	fmt.Fprintln(w, "# Verification Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n\n", summaryLine(results))

	fmt.Fprintln(w, "| Device | Test | Categories | Status | Duration | Messages |")
	fmt.Fprintln(w, "|--------|------|------------|--------|----------|----------|")
	groups := results.GroupByDevice()
	devices := make([]string, 0, len(groups))
	for device := range groups {
		devices = append(devices, device)
	}
	sort.Strings(devices)
	for _, device := range devices {
		for _, res := range groups[device] {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %dms | %s |\n",
				device,
				res.Test,
				FormatCategories(res.Categories, r.acronyms()),
				res.Status(),
				res.DurationMs(),
				strings.Join(res.Messages(), "; "),
			)
		}
	}
}

// summaryLine renders per-status counts in a stable order.
func summaryLine(results *runner.Results) string {
	counts := results.Summary()
	order := []probe.Status{
		probe.StatusSuccess, probe.StatusFailure, probe.StatusError,
		probe.StatusSkipped, probe.StatusUnset,
	}
	parts := make([]string, 0, len(order))
	for _, st := range order {
		if counts[st] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[st], st))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "no results")
	}
	return fmt.Sprintf("Total: %d (%s)", results.Len(), strings.Join(parts, ", "))
}

func colorStatus(st probe.Status) string {
	switch st {
	case probe.StatusSuccess:
		return Green(string(st))
	case probe.StatusFailure, probe.StatusError:
		return Red(string(st))
	case probe.StatusSkipped:
		return Yellow(string(st))
	default:
		return Dim(string(st))
	}
}
