// Package template resolves step parameter strings against an execution
// context. The interpolation syntax lives behind the Engine interface so
// the graph and executor contracts stay independent of it.
package template

import (
	"fmt"

	"github.com/chainrun/chainrun/internal/model"
)

// Engine renders a single parameter template against an execution context.
// Implementations must fail on unresolvable references rather than
// interpolating them to empty strings.
type Engine interface {
	Render(tmpl string, ec model.ExecutionContext) (string, error)
}

// ResolutionError is returned when a template references a step or result
// field that is absent from the execution context.
type ResolutionError struct {
	Template  string
	Reference string
	Reason    string
}

func (e *ResolutionError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("template %q references unresolved %q", e.Template, e.Reference)
	}
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}
