package runner

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
)

func makeResult(device, test string, categories, tags []string, status probe.Status) *probe.Result {
	res := probe.NewResult(device, test, categories, tags)
	switch status {
	case probe.StatusSuccess:
		res.Pass()
	case probe.StatusFailure:
		res.Failf("failed")
	case probe.StatusError:
		res.Errorf("errored")
	case probe.StatusSkipped:
		res.Skipf("skipped")
	}
	return res
}

func TestResultsViews(t *testing.T) {
	rs := NewResults()
	rs.Append(makeResult("leaf1", "t1", []string{"bgp"}, []string{"leaf"}, probe.StatusSuccess))
	rs.Append(makeResult("leaf1", "t2", []string{"bgp", "evpn"}, []string{"leaf"}, probe.StatusFailure))
	rs.Append(makeResult("spine1", "t1", []string{"bgp"}, []string{"spine"}, probe.StatusSuccess))
	rs.Append(makeResult("spine1", "t3", []string{"interfaces"}, nil, probe.StatusSkipped))

	if got := len(rs.ByDevice("leaf1")); got != 2 {
		t.Errorf("ByDevice(leaf1) = %d, want 2", got)
	}
	if got := len(rs.ByStatus(probe.StatusSuccess)); got != 2 {
		t.Errorf("ByStatus(success) = %d, want 2", got)
	}
	if got := len(rs.ByCategory("bgp")); got != 3 {
		t.Errorf("ByCategory(bgp) = %d, want 3", got)
	}
	if got := len(rs.ByTag("spine")); got != 1 {
		t.Errorf("ByTag(spine) = %d, want 1", got)
	}

	groups := rs.GroupByCategory()
	if len(groups["evpn"]) != 1 {
		t.Errorf("GroupByCategory()[evpn] = %d, want 1", len(groups["evpn"]))
	}

	counts := rs.Summary()
	if counts[probe.StatusSuccess] != 2 || counts[probe.StatusFailure] != 1 || counts[probe.StatusSkipped] != 1 {
		t.Errorf("Summary() = %v", counts)
	}
}

func TestResultsArrivalOrder(t *testing.T) {
	rs := NewResults()
	rs.Append(makeResult("leaf1", "b", nil, nil, probe.StatusSuccess))
	rs.Append(makeResult("leaf1", "a", nil, nil, probe.StatusSuccess))

	all := rs.All()
	if all[0].Test != "b" || all[1].Test != "a" {
		t.Error("All() did not preserve arrival order")
	}
}

func TestResultsConcurrentAppend(t *testing.T) {
	rs := NewResults()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rs.Append(makeResult(fmt.Sprintf("dev%d", i%5), "t", nil, nil, probe.StatusSuccess))
		}(i)
	}
	wg.Wait()

	if rs.Len() != 50 {
		t.Errorf("Len() = %d after concurrent appends, want 50", rs.Len())
	}
}
