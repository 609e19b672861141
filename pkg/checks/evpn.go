package checks

import (
	"net/netip"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// evpnRouteTemplate renders one route-type ip-prefix lookup per verified
// prefix.
var evpnRouteTemplate = probe.NewTemplate("show bgp evpn route-type ip-prefix {address} vni {vni}")

// EVPNPath is an expected next hop within a route.
type EVPNPath struct {
	NextHop   string `yaml:"nexthop"`
	Interface string `yaml:"interface,omitempty"`
}

// EVPNRouteSelector refines verification to one route, identified by its
// route distinguisher and domain, optionally down to individual paths.
type EVPNRouteSelector struct {
	RD     string     `yaml:"rd"`
	Domain string     `yaml:"domain,omitempty"` // "local" (default) or "remote"
	Paths  []EVPNPath `yaml:"paths,omitempty"`
}

// EVPNPrefix is one prefix/VNI pair to verify, with optional route-level
// refinement.
type EVPNPrefix struct {
	Address string              `yaml:"address"`
	VNI     int                 `yaml:"vni"`
	Routes  []EVPNRouteSelector `yaml:"routes,omitempty"`
}

// EVPNRoutesInput parametrizes one EVPNRoutes instance.
type EVPNRoutesInput struct {
	Prefixes []EVPNPrefix `yaml:"prefixes"`
}

// Validate checks prefixes, VNI range, and selector fields.
func (in EVPNRoutesInput) Validate() error {
	var v util.ValidationBuilder
	if len(in.Prefixes) == 0 {
		v.AddError("at least one prefix is required")
	}
	for _, p := range in.Prefixes {
		if _, err := netip.ParsePrefix(p.Address); err != nil {
			v.AddErrorf("invalid prefix address %q", p.Address)
		}
		if p.VNI < 1 || p.VNI > 16777215 {
			v.AddErrorf("vni %d out of range for prefix %q", p.VNI, p.Address)
		}
		for _, r := range p.Routes {
			if r.RD == "" {
				v.AddErrorf("route selector for prefix %q is missing rd", p.Address)
			}
			if r.Domain != "" && r.Domain != "local" && r.Domain != "remote" {
				v.AddErrorf("route domain %q for prefix %q must be local or remote", r.Domain, p.Address)
			}
		}
	}
	return v.Build()
}

// EVPNRoutes verifies EVPN type-5 route presence for a set of prefixes.
//
// Absence of any route for a prefix is an immediate failure. Without
// selectors, the prefix passes when at least one active and valid path
// exists across all of its route distinguishers. With selectors, each
// selected route must exist and carry the expected paths; a missing route
// fails only that selector while its siblings keep evaluating.
type EVPNRoutes struct {
	Input EVPNRoutesInput
}

func (c *EVPNRoutes) Name() string {
	return "evpn-routes"
}

func (c *EVPNRoutes) Categories() []string {
	return []string{"bgp", "evpn"}
}

func (c *EVPNRoutes) Commands() ([]probe.Request, error) {
	if err := c.Input.Validate(); err != nil {
		return nil, err
	}
	reqs := make([]probe.Request, 0, len(c.Input.Prefixes))
	for _, p := range c.Input.Prefixes {
		reqs = append(reqs, probe.Templated(evpnRouteTemplate, map[string]any{
			"address": p.Address,
			"vni":     p.VNI,
		}))
	}
	return reqs, nil
}

// evpnRoutesOutput is the JSON shape of the route-type ip-prefix lookup.
type evpnRoutesOutput struct {
	Routes []evpnRoute `json:"routes"`
}

type evpnRoute struct {
	RouteDistinguisher string          `json:"routeDistinguisher"`
	Domain             string          `json:"domain"`
	Paths              []evpnRoutePath `json:"paths"`
}

type evpnRoutePath struct {
	NextHop   string `json:"nextHop"`
	Interface string `json:"interface"`
	Active    bool   `json:"active"`
	Valid     bool   `json:"valid"`
}

func (c *EVPNRoutes) Verify(res *probe.Result, cmds []*probe.Command) {
	for i, p := range c.Input.Prefixes {
		var out evpnRoutesOutput
		if err := cmds[i].Decode(&out); err != nil {
			res.Failf("%v", err)
			continue
		}

		if len(out.Routes) == 0 {
			res.Failf("no EVPN type-5 routes found for prefix %s vni %d", p.Address, p.VNI)
			continue
		}

		if len(p.Routes) == 0 {
			if !anyActiveValid(out.Routes) {
				res.Failf("No active and valid path found across all RDs")
			}
			continue
		}

		for _, sel := range p.Routes {
			c.verifySelector(res, out.Routes, sel)
		}
	}
	res.Pass()
}

// verifySelector checks one route selector; a miss short-circuits only this
// selector.
func (c *EVPNRoutes) verifySelector(res *probe.Result, routes []evpnRoute, sel EVPNRouteSelector) {
	domain := sel.Domain
	if domain == "" {
		domain = "local"
	}

	var matched []evpnRoute
	for _, rt := range routes {
		if rt.RouteDistinguisher == sel.RD && rt.Domain == domain {
			matched = append(matched, rt)
		}
	}
	if len(matched) == 0 {
		res.Failf("Route not found")
		return
	}

	if len(sel.Paths) == 0 {
		if !anyActiveValid(matched) {
			res.Failf("no active and valid path found for route rd %s domain %s", sel.RD, domain)
		}
		return
	}

	for _, want := range sel.Paths {
		if !hasActiveValidPath(matched, want) {
			res.Failf("no active and valid path with nexthop %s for route rd %s domain %s", want.NextHop, sel.RD, domain)
		}
	}
}

func anyActiveValid(routes []evpnRoute) bool {
	for _, rt := range routes {
		for _, path := range rt.Paths {
			if path.Active && path.Valid {
				return true
			}
		}
	}
	return false
}

func hasActiveValidPath(routes []evpnRoute, want EVPNPath) bool {
	for _, rt := range routes {
		for _, path := range rt.Paths {
			if path.NextHop != want.NextHop {
				continue
			}
			if want.Interface != "" && path.Interface != want.Interface {
				continue
			}
			if path.Active && path.Valid {
				return true
			}
		}
	}
	return false
}
