package checks

import (
	"encoding/json"
	"testing"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

// completed builds a command with a resolved JSON outcome.
func completed(t *testing.T, text, doc string) *probe.Command {
	t.Helper()
	var output any
	if err := json.Unmarshal([]byte(doc), &output); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	cmd := probe.NewCommand(text)
	cmd.SetOutcome(doc, output, nil)
	return cmd
}

func newResult() *probe.Result {
	return probe.NewResult("leaf1", "test", nil, nil)
}
