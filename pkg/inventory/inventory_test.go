package inventory

import (
	"testing"

	"github.com/fleetcheck-network/fleetcheck/pkg/device"
)

const sampleInventory = `
devices:
  - name: leaf1
    host: 10.0.0.11
    tags: [leaf]
  - name: leaf2
    host: 10.0.0.12
    transport: ssh
    username: admin
    password: admin
    tags: [leaf]
  - name: sonic1
    host: 10.0.0.21
    transport: statedb
    username: admin
    tags: [spine, sonic]
`

func TestParseInventory(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(inv.Devices) != 3 {
		t.Fatalf("len(Devices) = %d, want 3", len(inv.Devices))
	}
	if inv.Devices[2].Transport != TransportStateDB {
		t.Errorf("Transport = %q, want statedb", inv.Devices[2].Transport)
	}
}

func TestParseInventoryRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			"duplicate name",
			"devices:\n  - {name: leaf1, host: 10.0.0.1}\n  - {name: leaf1, host: 10.0.0.2}\n",
		},
		{
			"duplicate address",
			"devices:\n  - {name: leaf1, host: 10.0.0.1}\n  - {name: leaf2, host: 10.0.0.1}\n",
		},
		{
			"unknown transport",
			"devices:\n  - {name: leaf1, host: 10.0.0.1, transport: telnet}\n",
		},
		{
			"missing host",
			"devices:\n  - {name: leaf1}\n",
		},
		{
			"empty",
			"devices: []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse() succeeded, want error")
			}
		})
	}
}

func TestBuildTransports(t *testing.T) {
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fleet := inv.Build(BuildOptions{})
	if len(fleet) != 3 {
		t.Fatalf("len(fleet) = %d, want 3", len(fleet))
	}
	if _, ok := fleet[0].(*device.SSHDevice); !ok {
		t.Errorf("default transport is %T, want *device.SSHDevice", fleet[0])
	}
	if _, ok := fleet[2].(*device.StateDBDevice); !ok {
		t.Errorf("statedb transport is %T, want *device.StateDBDevice", fleet[2])
	}
	if got := fleet[2].Tags(); len(got) != 2 || got[0] != "spine" {
		t.Errorf("Tags() = %v", got)
	}
}
