package template

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/chainrun/chainrun/internal/model"
)

// resultFields are the StepResult fields addressable from a template.
var resultFields = map[string]bool{
	"value":     true,
	"success":   true,
	"executing": true,
}

// HCLEngine is the default Engine. Parameters are HCL string templates:
// plain text passes through untouched, and ${stepID.value} (or .success,
// .executing) interpolates a prior step's result.
type HCLEngine struct{}

// NewHCL returns the default HCL-backed template engine.
func NewHCL() *HCLEngine {
	return &HCLEngine{}
}

// Render evaluates tmpl against the execution context. Every referenced
// step must have an entry in the context and every referenced field must
// be a StepResult field, otherwise a *ResolutionError is returned.
func (e *HCLEngine) Render(tmpl string, ec model.ExecutionContext) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(tmpl), "param", hcl.InitialPos)
	if diags.HasErrors() {
		return "", fmt.Errorf("parse template %q: %w", tmpl, diags)
	}

	// Check references up front so the caller gets the offending name
	// instead of a generic evaluation diagnostic.
	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		if _, ok := ec[root]; !ok {
			return "", &ResolutionError{Template: tmpl, Reference: root}
		}
		if len(traversal) > 1 {
			if attr, ok := traversal[1].(hcl.TraverseAttr); ok && !resultFields[attr.Name] {
				return "", &ResolutionError{Template: tmpl, Reference: root + "." + attr.Name}
			}
		}
	}

	vars := make(map[string]cty.Value, len(ec))
	for id, res := range ec {
		vars[id] = cty.ObjectVal(map[string]cty.Value{
			"value":     cty.StringVal(res.Value),
			"success":   cty.BoolVal(res.Success),
			"executing": cty.BoolVal(res.Executing),
		})
	}

	val, diags := expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return "", &ResolutionError{Template: tmpl, Reason: diags.Error()}
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", &ResolutionError{Template: tmpl, Reason: err.Error()}
	}
	return str.AsString(), nil
}

// RenderAll renders each parameter template in order with the given
// engine, failing on the first unresolvable one.
func RenderAll(e Engine, params []string, ec model.ExecutionContext) ([]string, error) {
	out := make([]string, len(params))
	for i, p := range params {
		rendered, err := e.Render(p, ec)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		out[i] = rendered
	}
	return out, nil
}
