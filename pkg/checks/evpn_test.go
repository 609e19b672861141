package checks

import (
	"testing"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

func evpnInput(prefixes ...EVPNPrefix) EVPNRoutesInput {
	return EVPNRoutesInput{Prefixes: prefixes}
}

func TestEVPNRoutesCommands(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(
		EVPNPrefix{Address: "192.168.10.0/24", VNI: 10},
		EVPNPrefix{Address: "10.20.0.0/16", VNI: 20},
	)}

	reqs, err := check.Commands()
	if err != nil {
		t.Fatalf("Commands() error = %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("len(Commands()) = %d, want 2", len(reqs))
	}
	cmd, err := reqs[0].Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10"
	if cmd.Text != want {
		t.Errorf("rendered text = %q, want %q", cmd.Text, want)
	}
}

func TestEVPNRoutesInputValidation(t *testing.T) {
	tests := []struct {
		name  string
		input EVPNRoutesInput
	}{
		{"no prefixes", EVPNRoutesInput{}},
		{"bad address", evpnInput(EVPNPrefix{Address: "not-a-prefix", VNI: 10})},
		{"vni out of range", evpnInput(EVPNPrefix{Address: "10.0.0.0/24", VNI: 0})},
		{"selector missing rd", evpnInput(EVPNPrefix{
			Address: "10.0.0.0/24", VNI: 10,
			Routes: []EVPNRouteSelector{{Domain: "local"}},
		})},
		{"bad domain", evpnInput(EVPNPrefix{
			Address: "10.0.0.0/24", VNI: 10,
			Routes: []EVPNRouteSelector{{RD: "10.0.0.1:100", Domain: "global"}},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.input.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

const evpnNoValidPaths = `{"routes": [
	{"routeDistinguisher": "10.0.0.1:100", "domain": "local", "paths": [
		{"nextHop": "10.1.1.1", "active": false, "valid": true}
	]},
	{"routeDistinguisher": "10.0.0.2:100", "domain": "local", "paths": [
		{"nextHop": "10.1.1.2", "active": true, "valid": false}
	]}
]}`

const evpnHealthy = `{"routes": [
	{"routeDistinguisher": "10.0.0.1:100", "domain": "local", "paths": [
		{"nextHop": "10.1.1.1", "interface": "Vxlan1", "active": true, "valid": true}
	]}
]}`

func TestEVPNRoutesNoActiveValidPath(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(EVPNPrefix{Address: "192.168.10.0/24", VNI: 10})}
	res := newResult()
	cmd := completed(t, "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10", evpnNoValidPaths)

	check.Verify(res, []*probe.Command{cmd})

	if res.Status() != probe.StatusFailure {
		t.Fatalf("status = %q, want failure", res.Status())
	}
	if res.Messages()[0] != "No active and valid path found across all RDs" {
		t.Errorf("message = %q", res.Messages()[0])
	}
}

func TestEVPNRoutesRouteNotFoundContinuesSiblings(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(EVPNPrefix{
		Address: "192.168.10.0/24", VNI: 10,
		Routes: []EVPNRouteSelector{
			{RD: "10.0.0.9:900", Domain: "local"}, // absent
			{RD: "10.0.0.1:100", Domain: "local"}, // present and healthy
		},
	})}
	res := newResult()
	cmd := completed(t, "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10", evpnHealthy)

	check.Verify(res, []*probe.Command{cmd})

	if res.Status() != probe.StatusFailure {
		t.Fatalf("status = %q, want failure", res.Status())
	}
	msgs := res.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want exactly the missing-route failure", msgs)
	}
	if msgs[0] != "Route not found" {
		t.Errorf("message = %q, want %q", msgs[0], "Route not found")
	}
}

func TestEVPNRoutesHealthyPasses(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(EVPNPrefix{
		Address: "192.168.10.0/24", VNI: 10,
		Routes: []EVPNRouteSelector{{
			RD:    "10.0.0.1:100",
			Paths: []EVPNPath{{NextHop: "10.1.1.1", Interface: "Vxlan1"}},
		}},
	})}
	res := newResult()
	cmd := completed(t, "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10", evpnHealthy)

	check.Verify(res, []*probe.Command{cmd})

	if res.Status() != probe.StatusSuccess {
		t.Errorf("status = %q, want success (%v)", res.Status(), res.Messages())
	}
}

func TestEVPNRoutesEmptyResponseFails(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(EVPNPrefix{Address: "192.168.10.0/24", VNI: 10})}
	res := newResult()
	cmd := completed(t, "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10", `{"routes": []}`)

	check.Verify(res, []*probe.Command{cmd})

	if res.Status() != probe.StatusFailure {
		t.Errorf("status = %q, want failure", res.Status())
	}
}

func TestEVPNRoutesMissingExpectedPath(t *testing.T) {
	check := &EVPNRoutes{Input: evpnInput(EVPNPrefix{
		Address: "192.168.10.0/24", VNI: 10,
		Routes: []EVPNRouteSelector{{
			RD:    "10.0.0.1:100",
			Paths: []EVPNPath{{NextHop: "10.9.9.9"}},
		}},
	})}
	res := newResult()
	cmd := completed(t, "show bgp evpn route-type ip-prefix 192.168.10.0/24 vni 10", evpnHealthy)

	check.Verify(res, []*probe.Command{cmd})

	if res.Status() != probe.StatusFailure {
		t.Fatalf("status = %q, want failure", res.Status())
	}
}
