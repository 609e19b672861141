package device

import (
	"context"
	"sync"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// Cache deduplicates command dispatch for one device within one run.
//
// The first requester of a cache key owns the dispatch; any later requester
// for the same key receives the owner's Command instance, awaiting the
// pending outcome when the dispatch is still in flight. Each key is written
// exactly once. A transport failure is cached for the rest of the run so
// later tests against an unreachable device fail fast instead of
// re-attempting the connection.
type Cache struct {
	dev Device

	mu           sync.Mutex
	entries      map[probe.Key]*cacheEntry
	transportErr error
}

type cacheEntry struct {
	cmd   *probe.Command
	ready chan struct{}
}

// NewCache creates an empty run-scoped cache for dev.
func NewCache(dev Device) *Cache {
	return &Cache{
		dev:     dev,
		entries: make(map[probe.Key]*cacheEntry),
	}
}

// Device returns the device this cache dispatches to.
func (c *Cache) Device() Device {
	return c.dev
}

// Submit resolves a batch of commands through the cache. Commands whose key
// was already requested are replaced by the canonical instance; the rest are
// dispatched to the device in a single Run call. Submit blocks until every
// command in the batch has an outcome or ctx expires. The returned error is
// transport-level and covers the whole batch.
func (c *Cache) Submit(ctx context.Context, cmds []*probe.Command) ([]*probe.Command, error) {
	out := make([]*probe.Command, len(cmds))
	var owned []*cacheEntry
	var wait []*cacheEntry

	c.mu.Lock()
	failFast := c.transportErr
	for i, cmd := range cmds {
		key := cmd.Key()
		if e, ok := c.entries[key]; ok {
			out[i] = e.cmd
			if !isClosed(e.ready) {
				wait = append(wait, e)
			}
			continue
		}
		e := &cacheEntry{cmd: cmd, ready: make(chan struct{})}
		c.entries[key] = e
		out[i] = cmd
		if failFast != nil {
			cmd.SetOutcome("", nil, failFast)
			close(e.ready)
			continue
		}
		owned = append(owned, e)
	}
	c.mu.Unlock()

	if failFast != nil {
		return out, failFast
	}

	if len(owned) > 0 {
		if err := c.dispatch(ctx, owned); err != nil {
			return out, err
		}
	}

	for _, e := range wait {
		select {
		case <-e.ready:
		case <-ctx.Done():
			return out, &TransportError{Device: c.dev.Name(), Err: ctx.Err()}
		}
	}
	return out, nil
}

// dispatch runs the owned entries as one batch and records their outcomes.
// A transport failure resolves every owned command to the same error and is
// cached for the remainder of the run.
func (c *Cache) dispatch(ctx context.Context, owned []*cacheEntry) error {
	batch := make([]*probe.Command, len(owned))
	for i, e := range owned {
		batch[i] = e.cmd
	}

	err := c.dev.Run(ctx, batch)
	if err != nil {
		if _, ok := err.(*TransportError); !ok {
			err = &TransportError{Device: c.dev.Name(), Err: err}
		}
		c.mu.Lock()
		c.transportErr = err
		c.mu.Unlock()
		util.WithDevice(c.dev.Name()).Warnf("transport failure, caching for run: %v", err)
	}

	for _, e := range owned {
		if err != nil {
			e.cmd.SetOutcome("", nil, err)
		} else if !e.cmd.Completed() {
			e.cmd.SetOutcome("", nil, &CommandError{Text: e.cmd.Text, Err: util.ErrNotFound})
		}
		close(e.ready)
	}
	return err
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
