package probe

import "testing"

func TestResultPass(t *testing.T) {
	res := NewResult("leaf1", "t1", nil, nil)
	if res.Status() != StatusUnset {
		t.Fatalf("new result status = %q, want unset", res.Status())
	}
	res.Pass()
	if res.Status() != StatusSuccess {
		t.Errorf("status after Pass = %q, want success", res.Status())
	}
}

func TestResultStickyFailure(t *testing.T) {
	res := NewResult("leaf1", "t1", nil, nil)

	res.Failf("first problem")
	res.Failf("second problem")
	res.Failf("third problem")
	res.Pass()

	if res.Status() != StatusFailure {
		t.Errorf("status = %q, want failure after Pass on failed result", res.Status())
	}
	msgs := res.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(msgs))
	}
	if msgs[0] != "first problem" || msgs[2] != "third problem" {
		t.Errorf("messages out of order: %v", msgs)
	}
}

func TestResultTerminalMonotonicity(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Result)
		want  Status
	}{
		{"error survives pass", func(r *Result) { r.Errorf("boom"); r.Pass() }, StatusError},
		{"error survives failure", func(r *Result) { r.Errorf("boom"); r.Failf("nope") }, StatusError},
		{"failure overrides success", func(r *Result) { r.Pass(); r.Failf("nope") }, StatusFailure},
		{"skip survives everything", func(r *Result) { r.Skipf("bad input"); r.Pass(); r.Failf("x"); r.Errorf("y") }, StatusSkipped},
		{"skip unreachable after failure", func(r *Result) { r.Failf("x"); r.Skipf("late") }, StatusFailure},
		{"error overrides failure", func(r *Result) { r.Failf("x"); r.Errorf("boom") }, StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResult("leaf1", "t1", nil, nil)
			tt.setup(res)
			if res.Status() != tt.want {
				t.Errorf("status = %q, want %q", res.Status(), tt.want)
			}
		})
	}
}

func TestResultSkipOnlyFromUnset(t *testing.T) {
	res := NewResult("leaf1", "t1", nil, nil)
	res.Skipf("no commands resolved")
	if res.Status() != StatusSkipped {
		t.Fatalf("status = %q, want skipped", res.Status())
	}
	if len(res.Messages()) != 1 {
		t.Errorf("len(Messages) = %d, want 1", len(res.Messages()))
	}

	res.Skipf("second skip")
	if len(res.Messages()) != 1 {
		t.Errorf("second Skipf appended a message on a terminal result")
	}
}
