// Package testutil provides shared test fixtures.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fleetcheck-network/fleetcheck/pkg/device"
	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

// FakeDevice is an in-memory Device scripted with canned JSON responses
// keyed by command text. It records every Run call for dedup assertions.
type FakeDevice struct {
	DeviceName string
	DeviceTags []string

	// Responses maps command text to a JSON document served as output.
	Responses map[string]string

	// Reject maps command text to a rejection message (command-level error).
	Reject map[string]string

	// TransportErr fails every Run call at the transport level when set.
	TransportErr error

	// Delay pauses each Run call, for concurrency tests.
	Delay time.Duration

	// Tracker, when set, observes Run concurrency across devices.
	Tracker *Tracker

	mu          sync.Mutex
	runs        int
	dispatched  []string
	inflight    int
	maxInflight int
}

// Name returns the device name, defaulting to "fake1".
func (d *FakeDevice) Name() string {
	if d.DeviceName == "" {
		return "fake1"
	}
	return d.DeviceName
}

// Tags returns the device tags.
func (d *FakeDevice) Tags() []string { return d.DeviceTags }

// Run serves each command from the scripted responses.
func (d *FakeDevice) Run(ctx context.Context, cmds []*probe.Command) error {
	d.mu.Lock()
	d.runs++
	d.inflight++
	if d.inflight > d.maxInflight {
		d.maxInflight = d.inflight
	}
	for _, cmd := range cmds {
		d.dispatched = append(d.dispatched, cmd.Text)
	}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.inflight--
		d.mu.Unlock()
	}()

	if d.Tracker != nil {
		d.Tracker.enter()
		defer d.Tracker.exit()
	}
	if d.Delay > 0 {
		time.Sleep(d.Delay)
	}

	if d.TransportErr != nil {
		return &device.TransportError{Device: d.Name(), Err: d.TransportErr}
	}

	for _, cmd := range cmds {
		if ctx.Err() != nil {
			return &device.TransportError{Device: d.Name(), Err: ctx.Err()}
		}
		if msg, ok := d.Reject[cmd.Text]; ok {
			cmd.SetOutcome("", nil, &device.CommandError{Text: cmd.Text, Err: fmt.Errorf("%s", msg)})
			continue
		}
		raw, ok := d.Responses[cmd.Text]
		if !ok {
			cmd.SetOutcome("", nil, &device.CommandError{Text: cmd.Text, Err: fmt.Errorf("no scripted response")})
			continue
		}
		var output any
		if err := json.Unmarshal([]byte(raw), &output); err != nil {
			return fmt.Errorf("bad fixture for %q: %w", cmd.Text, err)
		}
		cmd.SetOutcome(raw, output, nil)
	}
	return nil
}

// Runs returns how many times Run was called.
func (d *FakeDevice) Runs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runs
}

// Dispatched returns every command text passed to Run, in order.
func (d *FakeDevice) Dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.dispatched))
	copy(out, d.dispatched)
	return out
}

// MaxInflight returns the peak number of concurrent Run calls.
func (d *FakeDevice) MaxInflight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxInflight
}

// Tracker observes Run concurrency across a set of fake devices.
type Tracker struct {
	mu      sync.Mutex
	current int
	peak    int
}

func (t *Tracker) enter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current++
	if t.current > t.peak {
		t.peak = t.current
	}
}

func (t *Tracker) exit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current--
}

// Peak returns the highest concurrent Run count observed.
func (t *Tracker) Peak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peak
}
