// Package device defines the execution contract against one network node
// and the per-device, run-scoped command cache that deduplicates dispatch.
package device

import (
	"context"
	"fmt"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// Device executes batches of read-only diagnostic commands against one
// physical or virtual node.
//
// Run resolves every command in the batch by calling SetOutcome on it.
// A returned error is a transport-level failure (unreachable host, auth
// failure, timeout) affecting the whole batch; per-command rejections are
// recorded on the individual command's Err instead and Run returns nil.
type Device interface {
	Name() string
	Tags() []string
	Run(ctx context.Context, cmds []*probe.Command) error
}

// TransportError is a connection-level failure: the device could not be
// reached or the session died. Every command in flight resolves to it.
type TransportError struct {
	Device string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("device %s unreachable: %v", e.Device, e.Err)
}

func (e *TransportError) Unwrap() error {
	return util.ErrUnreachable
}

// CommandError is a rejection of one specific request; other commands in the
// same batch are unaffected.
type CommandError struct {
	Text string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q rejected: %v", e.Text, e.Err)
}

func (e *CommandError) Unwrap() error {
	return util.ErrCommandRejected
}
