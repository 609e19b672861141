package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/ssh"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// stateDBNum is the SONiC STATE_DB Redis database number.
const stateDBNum = 6

// StateDBDevice serves the structured command set by reading SONiC
// operational state tables (STATE_DB) over a Redis connection tunneled
// through SSH. Only JSON-format commands with a known state-table mapping
// are supported; anything else is rejected per command.
type StateDBDevice struct {
	name string
	tags []string
	addr string

	config *ssh.ClientConfig

	mu     sync.Mutex
	tunnel *SSHTunnel
	client *redis.Client
}

// NewStateDBDevice creates a StateDB device. Port 0 defaults to 22.
func NewStateDBDevice(name, host string, port int, user, pass string, tags []string) *StateDBDevice {
	if port == 0 {
		port = 22
	}
	return &StateDBDevice{
		name: name,
		tags: tags,
		addr: fmt.Sprintf("%s:%d", host, port),
		config: &ssh.ClientConfig{
			User: user,
			Auth: []ssh.AuthMethod{
				ssh.Password(pass),
			},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         15 * time.Second,
		},
	}
}

// Name returns the device name.
func (d *StateDBDevice) Name() string { return d.name }

// Tags returns the device tags.
func (d *StateDBDevice) Tags() []string { return d.tags }

// connect opens the SSH tunnel and the Redis client on first use.
func (d *StateDBDevice) connect(ctx context.Context) (*redis.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client != nil {
		return d.client, nil
	}

	tunnel, err := NewSSHTunnel(d.addr, d.config, "127.0.0.1:6379")
	if err != nil {
		return nil, &TransportError{Device: d.name, Err: err}
	}
	client := redis.NewClient(&redis.Options{
		Addr: tunnel.LocalAddr(),
		DB:   stateDBNum,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		tunnel.Close()
		return nil, &TransportError{Device: d.name, Err: fmt.Errorf("state_db ping: %w", err)}
	}

	util.WithDevice(d.name).Debugf("state_db connected via %s", tunnel.LocalAddr())
	d.tunnel = tunnel
	d.client = client
	return client, nil
}

// Close tears down the Redis client and the SSH tunnel.
func (d *StateDBDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil
	}
	d.client.Close()
	d.client = nil
	err := d.tunnel.Close()
	d.tunnel = nil
	return err
}

// Run serves each command from the state database in submission order.
func (d *StateDBDevice) Run(ctx context.Context, cmds []*probe.Command) error {
	client, err := d.connect(ctx)
	if err != nil {
		return err
	}

	for _, cmd := range cmds {
		select {
		case <-ctx.Done():
			return &TransportError{Device: d.name, Err: ctx.Err()}
		default:
		}

		if cmd.Format != probe.FormatJSON {
			cmd.SetOutcome("", nil, &CommandError{Text: cmd.Text, Err: fmt.Errorf("state_db transport supports JSON output only")})
			continue
		}

		output, err := d.serve(ctx, client, cmd.Text)
		if err != nil {
			if _, ok := err.(*CommandError); ok {
				cmd.SetOutcome("", nil, err)
				continue
			}
			return &TransportError{Device: d.name, Err: err}
		}

		raw, _ := json.Marshal(output)
		cmd.SetOutcome(string(raw), output, nil)
	}
	return nil
}

// serve maps a command text to its state-table read.
func (d *StateDBDevice) serve(ctx context.Context, client *redis.Client, text string) (any, error) {
	switch text {
	case "show bgp neighbors":
		return d.readBGPNeighbors(ctx, client)
	case "show interfaces status":
		return d.readInterfaces(ctx, client)
	case "show ip route":
		return d.readRoutes(ctx, client)
	default:
		return nil, &CommandError{Text: text, Err: fmt.Errorf("no state_db mapping for command")}
	}
}

// readBGPNeighbors reads BGP_NEIGHBOR_TABLE. SONiC keys entries as
// "<vrf>|<address>"; the VRF prefix is dropped in the flat neighbor map.
func (d *StateDBDevice) readBGPNeighbors(ctx context.Context, client *redis.Client) (any, error) {
	entries, err := d.readTable(ctx, client, "BGP_NEIGHBOR_TABLE")
	if err != nil {
		return nil, err
	}
	neighbors := map[string]any{}
	for key, vals := range entries {
		addr := key
		if i := strings.LastIndex(key, "|"); i >= 0 {
			addr = key[i+1:]
		}
		neighbors[addr] = map[string]any{
			"state":            vals["state"],
			"remoteAs":         vals["remote_asn"],
			"prefixesReceived": vals["prefixes_received"],
			"prefixesSent":     vals["prefixes_sent"],
			"uptime":           vals["uptime"],
			"lastResetReason":  vals["last_reset_reason"],
		}
	}
	return map[string]any{"neighbors": neighbors}, nil
}

// readInterfaces reads PORT_TABLE operational state.
func (d *StateDBDevice) readInterfaces(ctx context.Context, client *redis.Client) (any, error) {
	entries, err := d.readTable(ctx, client, "PORT_TABLE")
	if err != nil {
		return nil, err
	}
	interfaces := map[string]any{}
	for name, vals := range entries {
		interfaces[name] = map[string]any{
			"operStatus":  vals["oper_status"],
			"adminStatus": vals["admin_status"],
			"speed":       vals["speed"],
			"mtu":         vals["mtu"],
		}
	}
	return map[string]any{"interfaces": interfaces}, nil
}

// readRoutes reads ROUTE_TABLE.
func (d *StateDBDevice) readRoutes(ctx context.Context, client *redis.Client) (any, error) {
	entries, err := d.readTable(ctx, client, "ROUTE_TABLE")
	if err != nil {
		return nil, err
	}
	routes := map[string]any{}
	for prefix, vals := range entries {
		routes[prefix] = map[string]any{
			"nextHop":   vals["nexthop"],
			"interface": vals["ifname"],
			"protocol":  vals["protocol"],
		}
	}
	return map[string]any{"routes": routes}, nil
}

// readTable reads every entry of one state table as raw field maps, using
// cursor-based SCAN rather than KEYS to avoid blocking the device DB.
func (d *StateDBDevice) readTable(ctx context.Context, client *redis.Client, table string) (map[string]map[string]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := client.Scan(ctx, cursor, table+"|*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("state_db scan %s: %w", table, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	entries := make(map[string]map[string]string, len(keys))
	for _, key := range keys {
		vals, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("state_db read %s: %w", key, err)
		}
		entries[strings.TrimPrefix(key, table+"|")] = vals
	}
	return entries, nil
}
