package probe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fleetcheck-network/fleetcheck/pkg/util"
)

// placeholderPattern matches {name} fields in a template text.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Template generates Commands from a parametrized request text.
// Rendering is pure: the same parameters always produce the same command,
// and therefore the same cache key.
type Template struct {
	Text     string
	Format   Format
	Revision int
	Version  string
}

// NewTemplate creates a JSON-format template with default revision and version.
func NewTemplate(text string) Template {
	return Template{Text: text, Format: FormatJSON}
}

// Placeholders returns the sorted set of placeholder names in the template.
func (t Template) Placeholders() []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(t.Text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	sort.Strings(names)
	return names
}

// Render substitutes every placeholder with its parameter value and returns
// the resulting Command. An unfilled placeholder or a parameter that names
// no placeholder is a rendering error, attributed to the owning test.
func (t Template) Render(params map[string]any) (*Command, error) {
	names := t.Placeholders()

	for _, name := range names {
		if _, ok := params[name]; !ok {
			return nil, &util.RenderError{Template: t.Text, Placeholder: name, Reason: "unfilled"}
		}
	}
	for key := range params {
		if !contains(names, key) {
			return nil, &util.RenderError{Template: t.Text, Placeholder: key, Reason: "unknown"}
		}
	}

	text := placeholderPattern.ReplaceAllStringFunc(t.Text, func(m string) string {
		name := strings.Trim(m, "{}")
		return fmt.Sprintf("%v", params[name])
	})

	return &Command{
		Text:     text,
		Format:   t.Format,
		Revision: t.Revision,
		Version:  t.Version,
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
