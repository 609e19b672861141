package checks

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/itchyny/gojq"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// QueryInput parametrizes one Query check: an arbitrary read-only command,
// a jq expression over its JSON output, and the expected query result.
type QueryInput struct {
	Command string `yaml:"command"`
	Query   string `yaml:"query"`
	Expect  any    `yaml:"expect"`
}

// Validate requires a command and a parseable jq expression.
func (in QueryInput) Validate() error {
	var v util.ValidationBuilder
	if in.Command == "" {
		v.AddError("command is required")
	}
	if in.Query == "" {
		v.AddError("query is required")
	} else if _, err := gojq.Parse(in.Query); err != nil {
		v.AddErrorf("invalid jq query %q: %v", in.Query, err)
	}
	return v.Build()
}

// Query runs a catalog-defined command and asserts that a jq expression
// over its output yields the expected value. It covers one-off checks that
// do not warrant a dedicated test definition.
type Query struct {
	Input QueryInput
}

func (c *Query) Name() string {
	return "query"
}

func (c *Query) Categories() []string {
	return []string{"generic"}
}

func (c *Query) Commands() ([]probe.Request, error) {
	if err := c.Input.Validate(); err != nil {
		return nil, err
	}
	return []probe.Request{
		probe.Static(probe.NewCommand(c.Input.Command)),
	}, nil
}

func (c *Query) Verify(res *probe.Result, cmds []*probe.Command) {
	query, err := gojq.Parse(c.Input.Query)
	if err != nil {
		res.Failf("invalid jq query %q: %v", c.Input.Query, err)
		return
	}

	iter := query.Run(normalize(cmds[0].Output))
	got, ok := iter.Next()
	if !ok {
		res.Failf("query %q produced no result", c.Input.Query)
		return
	}
	if qerr, isErr := got.(error); isErr {
		res.Failf("query %q failed: %v", c.Input.Query, qerr)
		return
	}

	if !reflect.DeepEqual(normalize(got), normalize(c.Input.Expect)) {
		res.Failf("query %q = %v (expected %v)", c.Input.Query, got, c.Input.Expect)
		return
	}
	res.Pass()
}

// normalize round-trips a value through JSON so YAML-decoded expectations
// and transport-decoded outputs compare with the same concrete types.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}
