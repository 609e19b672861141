// Package checks provides the built-in test definitions: BGP and EVPN
// control-plane checks, interface state checks, and a generic jq-query
// check for catalog-defined assertions.
package checks

import (
	"strings"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// BGPNeighborCountInput parametrizes one BGPNeighborCount instance.
type BGPNeighborCountInput struct {
	Expected int `yaml:"expected"`
}

// Validate rejects an absent or non-positive expected count.
func (in BGPNeighborCountInput) Validate() error {
	var v util.ValidationBuilder
	if in.Expected <= 0 {
		v.AddErrorf("expected neighbor count must be a positive integer, got %d", in.Expected)
	}
	return v.Build()
}

// BGPNeighborCount verifies that the device has exactly the expected number
// of BGP neighbors in the full state.
type BGPNeighborCount struct {
	Input BGPNeighborCountInput
}

func (c *BGPNeighborCount) Name() string {
	return "bgp-neighbor-count"
}

func (c *BGPNeighborCount) Categories() []string {
	return []string{"bgp"}
}

func (c *BGPNeighborCount) Commands() ([]probe.Request, error) {
	if err := c.Input.Validate(); err != nil {
		return nil, err
	}
	return []probe.Request{
		probe.Static(probe.NewCommand("show bgp neighbors")),
	}, nil
}

// bgpNeighborsOutput is the JSON shape of "show bgp neighbors".
type bgpNeighborsOutput struct {
	Neighbors map[string]struct {
		State string `json:"state"`
	} `json:"neighbors"`
}

func (c *BGPNeighborCount) Verify(res *probe.Result, cmds []*probe.Command) {
	var out bgpNeighborsOutput
	if err := cmds[0].Decode(&out); err != nil {
		res.Failf("%v", err)
		return
	}

	got := 0
	for _, n := range out.Neighbors {
		if strings.EqualFold(n.State, "full") {
			got++
		}
	}
	if got != c.Input.Expected {
		res.Failf("device has %d neighbors (expected %d)", got, c.Input.Expected)
		return
	}
	res.Pass()
}
