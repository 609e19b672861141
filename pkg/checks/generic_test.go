package checks

import (
	"testing"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

func TestQueryInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input QueryInput
		valid bool
	}{
		{"ok", QueryInput{Command: "show version", Query: ".version", Expect: "4.30"}, true},
		{"missing command", QueryInput{Query: ".version"}, false},
		{"missing query", QueryInput{Command: "show version"}, false},
		{"unparseable query", QueryInput{Command: "show version", Query: ".["}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.valid && err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

func TestQueryVerify(t *testing.T) {
	const doc = `{"version": "4.30.1F", "uptime": 12345, "modules": ["a", "b"]}`

	tests := []struct {
		name   string
		query  string
		expect any
		want   probe.Status
	}{
		{"string match", ".version", "4.30.1F", probe.StatusSuccess},
		{"number match", ".uptime", 12345, probe.StatusSuccess},
		{"list length", ".modules | length", 2, probe.StatusSuccess},
		{"mismatch", ".version", "4.29.0F", probe.StatusFailure},
		{"no result", ".modules[] | select(. == \"c\")", "c", probe.StatusFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := &Query{Input: QueryInput{Command: "show version", Query: tt.query, Expect: tt.expect}}
			res := newResult()
			check.Verify(res, []*probe.Command{completed(t, "show version", doc)})

			if res.Status() != tt.want {
				t.Errorf("status = %q, want %q (%v)", res.Status(), tt.want, res.Messages())
			}
		})
	}
}
