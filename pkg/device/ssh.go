package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// SSHDevice executes diagnostic commands over an SSH session to the device
// CLI. JSON-format commands are suffixed with "| json" and their output
// decoded; text-format commands return raw output.
type SSHDevice struct {
	name string
	tags []string
	addr string

	config *ssh.ClientConfig

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHDevice creates an SSH device. Port 0 defaults to 22.
func NewSSHDevice(name, host string, port int, user, pass string, tags []string) *SSHDevice {
	if port == 0 {
		port = 22
	}
	return &SSHDevice{
		name: name,
		tags: tags,
		addr: fmt.Sprintf("%s:%d", host, port),
		config: &ssh.ClientConfig{
			User: user,
			Auth: []ssh.AuthMethod{
				ssh.Password(pass),
			},
			// Lab/test environment — production would verify host keys.
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         15 * time.Second,
		},
	}
}

// Name returns the device name.
func (d *SSHDevice) Name() string { return d.name }

// Tags returns the device tags.
func (d *SSHDevice) Tags() []string { return d.tags }

// connect dials the device on first use. The client is reused for the
// lifetime of the device.
func (d *SSHDevice) connect() (*ssh.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client != nil {
		return d.client, nil
	}
	client, err := ssh.Dial("tcp", d.addr, d.config)
	if err != nil {
		return nil, &TransportError{Device: d.name, Err: err}
	}
	util.WithDevice(d.name).Debugf("connected to %s", d.addr)
	d.client = client
	return client, nil
}

// Close tears down the SSH connection.
func (d *SSHDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}

// Run executes the batch in submission order. A session or connection
// failure aborts the batch as a transport error; a command that the device
// rejects resolves only that command.
func (d *SSHDevice) Run(ctx context.Context, cmds []*probe.Command) error {
	client, err := d.connect()
	if err != nil {
		return err
	}

	for _, cmd := range cmds {
		select {
		case <-ctx.Done():
			return &TransportError{Device: d.name, Err: ctx.Err()}
		default:
		}

		raw, err := d.exec(client, cmd)
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				cmd.SetOutcome(raw, nil, &CommandError{Text: cmd.Text, Err: err})
				continue
			}
			return &TransportError{Device: d.name, Err: err}
		}

		if cmd.Format == probe.FormatJSON {
			var output any
			if jerr := json.Unmarshal([]byte(raw), &output); jerr != nil {
				cmd.SetOutcome(raw, nil, &CommandError{Text: cmd.Text, Err: fmt.Errorf("invalid JSON output: %w", jerr)})
				continue
			}
			cmd.SetOutcome(raw, output, nil)
		} else {
			cmd.SetOutcome(raw, raw, nil)
		}
	}
	return nil
}

// exec runs one command in a fresh session (stateless, like the CLI).
func (d *SSHDevice) exec(client *ssh.Client, cmd *probe.Command) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("SSH session: %w", err)
	}
	defer session.Close()

	text := cmd.Text
	if cmd.Format == probe.FormatJSON {
		text += " | json"
	}
	output, err := session.CombinedOutput(text)
	return string(output), err
}
