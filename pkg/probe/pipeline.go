package probe

import (
	"context"
	"time"

	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// Dispatcher submits a deduplicated command batch for execution. It returns
// the canonical resolved commands: requesters of an already-seen key receive
// the same Command instance as the first requester. A non-nil error is a
// transport-level failure affecting the whole batch.
type Dispatcher interface {
	Submit(ctx context.Context, cmds []*Command) ([]*Command, error)
}

// RunTest executes the fixed verification pipeline for one (device, test)
// pair: validate and resolve commands, skip on an empty set, dispatch
// through the device cache, classify dispatch failures, then verify.
// Every outcome lands in res; RunTest never returns an error because no
// single test is allowed to abort a run.
func RunTest(ctx context.Context, disp Dispatcher, test Test, res *Result) {
	start := time.Now()
	defer func() { res.setDuration(time.Since(start)) }()

	requests, err := test.Commands()
	if err != nil {
		res.Skipf("%v", err)
		return
	}
	if len(requests) == 0 {
		res.Skipf("test resolved no commands to run")
		return
	}

	cmds := make([]*Command, 0, len(requests))
	for _, req := range requests {
		cmd, err := req.Resolve()
		if err != nil {
			res.Skipf("%v", err)
			return
		}
		cmds = append(cmds, cmd)
	}

	resolved, err := disp.Submit(ctx, cmds)
	if err != nil {
		res.Errorf("%v", err)
		return
	}
	for _, cmd := range resolved {
		if cmd.Err != nil {
			res.Errorf("command %q failed: %v", cmd.Text, cmd.Err)
		}
	}
	if res.Status() == StatusError {
		return
	}

	util.WithTest(res.Device, res.Test).Debugf("verifying %d command outputs", len(resolved))
	test.Verify(res, resolved)
}
