package checks

import (
	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// InterfaceExpectation names one interface and its expected operational
// status. Status defaults to "up".
type InterfaceExpectation struct {
	Name   string `yaml:"name"`
	Status string `yaml:"status,omitempty"`
}

// InterfaceStatusInput parametrizes one InterfaceStatus instance.
type InterfaceStatusInput struct {
	Interfaces []InterfaceExpectation `yaml:"interfaces"`
}

// Validate requires at least one named interface.
func (in InterfaceStatusInput) Validate() error {
	var v util.ValidationBuilder
	if len(in.Interfaces) == 0 {
		v.AddError("at least one interface is required")
	}
	for _, itf := range in.Interfaces {
		if itf.Name == "" {
			v.AddError("interface entry is missing a name")
		}
	}
	return v.Build()
}

// InterfaceStatus verifies the operational status of a set of interfaces.
type InterfaceStatus struct {
	Input InterfaceStatusInput
}

func (c *InterfaceStatus) Name() string {
	return "interface-status"
}

func (c *InterfaceStatus) Categories() []string {
	return []string{"interfaces"}
}

func (c *InterfaceStatus) Commands() ([]probe.Request, error) {
	if err := c.Input.Validate(); err != nil {
		return nil, err
	}
	return []probe.Request{
		probe.Static(probe.NewCommand("show interfaces status")),
	}, nil
}

// interfacesOutput is the JSON shape of "show interfaces status".
type interfacesOutput struct {
	Interfaces map[string]struct {
		OperStatus string `json:"operStatus"`
	} `json:"interfaces"`
}

func (c *InterfaceStatus) Verify(res *probe.Result, cmds []*probe.Command) {
	var out interfacesOutput
	if err := cmds[0].Decode(&out); err != nil {
		res.Failf("%v", err)
		return
	}

	for _, want := range c.Input.Interfaces {
		expected := want.Status
		if expected == "" {
			expected = "up"
		}
		entry, ok := out.Interfaces[want.Name]
		if !ok {
			res.Failf("interface %s not found", want.Name)
			continue
		}
		if entry.OperStatus != expected {
			res.Failf("interface %s is %s (expected %s)", want.Name, entry.OperStatus, expected)
		}
	}
	res.Pass()
}
