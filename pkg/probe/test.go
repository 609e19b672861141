package probe

// Input is a validated parameter bundle for one test instance. Validation is
// a pure check performed before any rendering or dispatch; a validation
// failure never reaches a device.
type Input interface {
	Validate() error
}

// NoInput is the input of tests that take no parameters.
type NoInput struct{}

// Validate always succeeds.
func (NoInput) Validate() error { return nil }

// Test is one declarative verification unit: the commands it needs and the
// verification logic applied to their collected outputs.
//
// Commands re-validates the test's input and resolves its request set; an
// error here means the test is skipped without touching a device. Verify is
// called with the resolved commands, all completed without error, and
// reports through the result's Pass/Failf primitives.
type Test interface {
	Name() string
	Categories() []string
	Commands() ([]Request, error)
	Verify(res *Result, cmds []*Command)
}
