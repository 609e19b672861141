// Package catalog parses YAML test catalogs into ordered entries, binding
// each entry to a registered test factory.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fleetcheck-network/fleetcheck/pkg/probe"
	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// Factory builds one test instance from its raw catalog input. Factories
// decode the input but defer semantic validation to the test's Commands
// method, so a bad parameter surfaces as a skipped result instead of
// aborting the whole catalog.
type Factory func(input *yaml.Node) (probe.Test, error)

// Registry maps catalog test identifiers to factories.
type Registry map[string]Factory

// Entry is one test instance to run: the built test plus the tags and
// categories it was declared with.
type Entry struct {
	Test       probe.Test
	Tags       []string
	Categories []string
}

type catalogFile struct {
	Tests []testDecl `yaml:"tests"`
}

type testDecl struct {
	Test       string    `yaml:"test"`
	Tags       []string  `yaml:"tags,omitempty"`
	Categories []string  `yaml:"categories,omitempty"`
	Input      yaml.Node `yaml:"input,omitempty"`
}

// Parse decodes a catalog document. Order is preserved. An identifier with
// no registered factory is a parse error; so is input that does not decode
// into the test's parameter type.
func Parse(data []byte, reg Registry) ([]Entry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(file.Tests) == 0 {
		return nil, fmt.Errorf("catalog declares no tests")
	}

	entries := make([]Entry, 0, len(file.Tests))
	for i, decl := range file.Tests {
		if decl.Test == "" {
			return nil, fmt.Errorf("catalog entry %d is missing a test identifier", i)
		}
		factory, ok := reg[decl.Test]
		if !ok {
			return nil, fmt.Errorf("catalog entry %d: %w: %q", i, util.ErrUnknownTest, decl.Test)
		}

		var input *yaml.Node
		if !decl.Input.IsZero() {
			input = &decl.Input
		}
		test, err := factory(input)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%s): %w", i, decl.Test, err)
		}

		categories := decl.Categories
		if len(categories) == 0 {
			categories = test.Categories()
		}
		entries = append(entries, Entry{
			Test:       test,
			Tags:       decl.Tags,
			Categories: categories,
		})
	}
	return entries, nil
}

// Load reads and parses a catalog file.
func Load(path string, reg Registry) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data, reg)
}
