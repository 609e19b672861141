package probe

// Request is the tagged variant a test declares its commands with: either a
// fixed Command or a Template plus the parameters to render it with. The
// pipeline resolves both forms uniformly.
type Request struct {
	cmd    *Command
	tmpl   *Template
	params map[string]any
}

// Static wraps a concrete command.
func Static(cmd *Command) Request {
	return Request{cmd: cmd}
}

// Templated wraps a template rendering.
func Templated(tmpl Template, params map[string]any) Request {
	return Request{tmpl: &tmpl, params: params}
}

// Resolve produces the concrete command, rendering the template if needed.
func (r Request) Resolve() (*Command, error) {
	if r.cmd != nil {
		return r.cmd, nil
	}
	return r.tmpl.Render(r.params)
}
