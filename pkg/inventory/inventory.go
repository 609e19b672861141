// Package inventory loads the device fleet from a YAML file and builds the
// transport for each device.
package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetcheck-network/fleetcheck/pkg/device"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// Transport identifiers accepted in the inventory file.
const (
	TransportSSH     = "ssh"
	TransportStateDB = "statedb"
)

// DeviceSpec is one device declaration.
type DeviceSpec struct {
	Name      string   `yaml:"name"`
	Host      string   `yaml:"host"`
	Port      int      `yaml:"port,omitempty"`
	Transport string   `yaml:"transport,omitempty"` // default "ssh"
	Username  string   `yaml:"username,omitempty"`
	Password  string   `yaml:"password,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
}

// Inventory is the parsed fleet file.
type Inventory struct {
	Devices []DeviceSpec `yaml:"devices"`
}

// Parse decodes and validates an inventory document. Device names and
// host:port pairs must be unique; order is preserved.
func Parse(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing inventory: %w", err)
	}
	if len(inv.Devices) == 0 {
		return nil, fmt.Errorf("inventory declares no devices")
	}

	var v util.ValidationBuilder
	names := map[string]bool{}
	hosts := map[string]bool{}
	for i, d := range inv.Devices {
		if d.Name == "" {
			v.AddErrorf("device %d is missing a name", i)
			continue
		}
		if names[d.Name] {
			v.AddErrorf("duplicate device name %q", d.Name)
		}
		names[d.Name] = true
		if d.Host == "" {
			v.AddErrorf("device %q is missing a host", d.Name)
		}
		addr := fmt.Sprintf("%s:%d", d.Host, d.Port)
		if d.Host != "" && hosts[addr] {
			v.AddErrorf("duplicate device address %s", addr)
		}
		hosts[addr] = true
		switch d.Transport {
		case "", TransportSSH, TransportStateDB:
		default:
			v.AddErrorf("device %q has unknown transport %q", d.Name, d.Transport)
		}
	}
	if err := v.Build(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Load reads and parses an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}
	return Parse(data)
}

// BuildOptions override per-device settings at build time.
type BuildOptions struct {
	// Password overrides every device password when non-empty, e.g. from an
	// interactive prompt.
	Password string
}

// Build constructs the transport for every declared device.
func (inv *Inventory) Build(opts BuildOptions) []device.Device {
	devices := make([]device.Device, 0, len(inv.Devices))
	for _, d := range inv.Devices {
		pass := d.Password
		if opts.Password != "" {
			pass = opts.Password
		}
		switch d.Transport {
		case TransportStateDB:
			devices = append(devices, device.NewStateDBDevice(d.Name, d.Host, d.Port, d.Username, pass, d.Tags))
		default:
			devices = append(devices, device.NewSSHDevice(d.Name, d.Host, d.Port, d.Username, pass, d.Tags))
		}
	}
	return devices
}
