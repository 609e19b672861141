package runner

import (
	"sync"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

// Results is the append-only, concurrency-safe result collection. Stored
// results are never mutated; append order is arrival order, not submission
// order. Presentation concerns (category casing, colors) live in the report
// package and never touch stored data.
type Results struct {
	mu      sync.RWMutex
	results []*probe.Result
}

// NewResults creates an empty collection.
func NewResults() *Results {
	return &Results{}
}

// Append adds a completed result. Safe under concurrent writers.
func (rs *Results) Append(res *probe.Result) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.results = append(rs.results, res)
}

// All returns the results in arrival order.
func (rs *Results) All() []*probe.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]*probe.Result, len(rs.results))
	copy(out, rs.results)
	return out
}

// Len returns the number of collected results.
func (rs *Results) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.results)
}

// ByDevice returns the results for one device.
func (rs *Results) ByDevice(name string) []*probe.Result {
	return rs.filter(func(r *probe.Result) bool { return r.Device == name })
}

// ByStatus returns the results with the given status.
func (rs *Results) ByStatus(status probe.Status) []*probe.Result {
	return rs.filter(func(r *probe.Result) bool { return r.Status() == status })
}

// ByCategory returns the results carrying the given category.
func (rs *Results) ByCategory(category string) []*probe.Result {
	return rs.filter(func(r *probe.Result) bool { return containsString(r.Categories, category) })
}

// ByTag returns the results whose catalog entry carried the given tag.
func (rs *Results) ByTag(tag string) []*probe.Result {
	return rs.filter(func(r *probe.Result) bool { return containsString(r.Tags, tag) })
}

// GroupByDevice returns results grouped per device.
func (rs *Results) GroupByDevice() map[string][]*probe.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	groups := map[string][]*probe.Result{}
	for _, r := range rs.results {
		groups[r.Device] = append(groups[r.Device], r)
	}
	return groups
}

// GroupByCategory returns results grouped per category. A result with
// several categories appears in each of its groups.
func (rs *Results) GroupByCategory() map[string][]*probe.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	groups := map[string][]*probe.Result{}
	for _, r := range rs.results {
		for _, c := range r.Categories {
			groups[c] = append(groups[c], r)
		}
	}
	return groups
}

// Summary returns per-status counts.
func (rs *Results) Summary() map[probe.Status]int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	counts := map[probe.Status]int{}
	for _, r := range rs.results {
		counts[r.Status()]++
	}
	return counts
}

func (rs *Results) filter(keep func(*probe.Result) bool) []*probe.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	var out []*probe.Result
	for _, r := range rs.results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
