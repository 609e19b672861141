// Package runner builds the (device, test) work set from a fleet and a
// catalog and dispatches it with bounded concurrency across devices.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/fleetcheck-network/fleetcheck/pkg/catalog"
	"github.com/fleetcheck-network/fleetcheck/pkg/device"
	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// DefaultLimit is the default number of devices verified in parallel.
const DefaultLimit = 10

// Options controls a run.
type Options struct {
	// Limit bounds how many devices are verified in parallel. 0 means
	// DefaultLimit.
	Limit int

	// DeviceTimeout bounds the whole session against one device; expiry
	// resolves pending commands to a transport error. 0 disables it.
	DeviceTimeout time.Duration

	// TestTimeout bounds one test invocation. 0 disables it.
	TestTimeout time.Duration

	// Devices, Tests, and Tags narrow the work set when non-empty.
	Devices []string
	Tests   []string
	Tags    []string
}

// Runner executes a catalog against a fleet.
type Runner struct {
	opts Options
}

// New creates a runner.
func New(opts Options) *Runner {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Runner{opts: opts}
}

// Run dispatches every applicable (device, test) pair and returns the
// collected results. Within one device, tests run sequentially against a
// shared run-scoped command cache; across devices they run in parallel up
// to the configured limit. Cancelling ctx stops scheduling new tests but
// already-completed results are always returned.
func (r *Runner) Run(ctx context.Context, fleet []device.Device, entries []catalog.Entry) *Results {
	results := NewResults()

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.opts.Limit)

	for _, dev := range fleet {
		work := r.workFor(dev, entries)
		if len(work) == 0 {
			continue
		}
		wg.Add(1)
		go func(dev device.Device, work []catalog.Entry) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			r.runDevice(ctx, dev, work, results)
		}(dev, work)
	}

	wg.Wait()
	return results
}

// workFor selects the catalog entries applicable to one device: the entry
// and device tag sets must intersect, an untagged entry applies everywhere,
// and the run-level filters apply on top.
func (r *Runner) workFor(dev device.Device, entries []catalog.Entry) []catalog.Entry {
	if len(r.opts.Devices) > 0 && !containsString(r.opts.Devices, dev.Name()) {
		return nil
	}
	var work []catalog.Entry
	for _, e := range entries {
		if len(r.opts.Tests) > 0 && !containsString(r.opts.Tests, e.Test.Name()) {
			continue
		}
		if len(r.opts.Tags) > 0 && !intersects(e.Tags, r.opts.Tags) {
			continue
		}
		if len(e.Tags) > 0 && !intersects(e.Tags, dev.Tags()) {
			continue
		}
		work = append(work, e)
	}
	return work
}

// runDevice executes one device's work list sequentially over a shared
// command cache, appending each result as it completes.
func (r *Runner) runDevice(ctx context.Context, dev device.Device, work []catalog.Entry, results *Results) {
	if r.opts.DeviceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.DeviceTimeout)
		defer cancel()
	}

	cache := device.NewCache(dev)
	log := util.WithDevice(dev.Name())
	log.Infof("running %d tests", len(work))

	for i, e := range work {
		if ctx.Err() != nil {
			log.Warnf("run cancelled, %d tests not started", len(work)-i)
			return
		}

		res := probe.NewResult(dev.Name(), e.Test.Name(), e.Categories, e.Tags)
		r.runOne(ctx, cache, e.Test, res)
		results.Append(res)
	}
}

func (r *Runner) runOne(ctx context.Context, cache *device.Cache, test probe.Test, res *probe.Result) {
	if r.opts.TestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.TestTimeout)
		defer cancel()
	}
	probe.RunTest(ctx, cache, test, res)
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if containsString(b, v) {
			return true
		}
	}
	return false
}
