// Package probe implements the test execution core: diagnostic commands,
// parametrized templates, the test contract, and the result status model.
package probe

import (
	"encoding/json"
	"fmt"
)

// Format selects the output encoding requested from the device.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Key identifies a command for per-device deduplication within a run.
// Two commands with equal keys collapse to a single dispatched request.
type Key struct {
	Text     string
	Format   Format
	Revision int
	Version  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s [%s rev=%d ver=%s]", k.Text, k.Format, k.Revision, k.Version)
}

// Command is one concrete diagnostic request and its outcome. The request
// fields are fixed at creation; the outcome is recorded exactly once by the
// device cache. Tests that requested the same key on the same device all
// observe the same Command instance.
type Command struct {
	Text     string
	Format   Format
	Revision int    // 0 means latest
	Version  string // "" means transport default

	// Outcome, write-once via SetOutcome.
	Raw    string
	Output any
	Err    error

	completed bool
}

// NewCommand creates a JSON-format command with default revision and version.
func NewCommand(text string) *Command {
	return &Command{Text: text, Format: FormatJSON}
}

// Key returns the cache identity of the command.
func (c *Command) Key() Key {
	return Key{Text: c.Text, Format: c.Format, Revision: c.Revision, Version: c.Version}
}

// SetOutcome records the command outcome. The first call wins; later calls
// are ignored so a resolved command can never change underneath a consumer.
func (c *Command) SetOutcome(raw string, output any, err error) {
	if c.completed {
		return
	}
	c.Raw = raw
	c.Output = output
	c.Err = err
	c.completed = true
}

// Completed reports whether an outcome has been recorded.
func (c *Command) Completed() bool {
	return c.completed
}

// Succeeded reports whether the command completed without error.
func (c *Command) Succeeded() bool {
	return c.completed && c.Err == nil
}

// Decode unmarshals the command's JSON output into v. It goes through an
// encoding/json round trip so transports may populate Output with either
// raw maps or typed structs.
func (c *Command) Decode(v any) error {
	if !c.completed || c.Err != nil {
		return fmt.Errorf("command %q has no output to decode", c.Text)
	}
	if c.Format != FormatJSON {
		return fmt.Errorf("command %q is %s format, cannot decode as JSON", c.Text, c.Format)
	}
	data, err := json.Marshal(c.Output)
	if err != nil {
		return fmt.Errorf("command %q: re-encoding output: %w", c.Text, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("command %q: decoding output: %w", c.Text, err)
	}
	return nil
}

// Text output of a text-format command, or "" when not completed.
func (c *Command) TextOutput() string {
	if !c.completed {
		return ""
	}
	if s, ok := c.Output.(string); ok {
		return s
	}
	return c.Raw
}
