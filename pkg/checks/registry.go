package checks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fleetcheck-network/fleetcheck/pkg/catalog"
	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

// Registry returns the built-in check factories keyed by catalog
// identifier. The map is freshly built on each call so callers may extend
// it without affecting others.
func Registry() catalog.Registry {
	return catalog.Registry{
		"bgp-neighbor-count": func(input *yaml.Node) (probe.Test, error) {
			var in BGPNeighborCountInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			return &BGPNeighborCount{Input: in}, nil
		},
		"evpn-routes": func(input *yaml.Node) (probe.Test, error) {
			var in EVPNRoutesInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			return &EVPNRoutes{Input: in}, nil
		},
		"interface-status": func(input *yaml.Node) (probe.Test, error) {
			var in InterfaceStatusInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			return &InterfaceStatus{Input: in}, nil
		},
		"query": func(input *yaml.Node) (probe.Test, error) {
			var in QueryInput
			if err := decodeInput(input, &in); err != nil {
				return nil, err
			}
			return &Query{Input: in}, nil
		},
	}
}

func decodeInput(input *yaml.Node, v any) error {
	if input == nil {
		return nil
	}
	if err := input.Decode(v); err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	return nil
}
