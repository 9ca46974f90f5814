package model

// StepResult is the recorded outcome of a single step as seen by template
// interpolation in later steps.
type StepResult struct {
	// Success reports whether the step's effect succeeded. Manual inputs
	// and view calls are successful by construction; transactions carry
	// their recorded outcome.
	Success bool
	// Value is the step's primary result: the manual input, the call
	// output, or the transaction hash, depending on the step kind.
	Value string
	// Executing marks a transient in-flight placeholder. It is never true
	// in a context built by BuildExecutionContext; only a live executor
	// writes it, and only until the terminal result lands.
	Executing bool
}

// ExecutionContext maps step IDs to their outcomes. It is a derived view
// of checklist state, regenerated whenever any step's result changes.
type ExecutionContext map[string]StepResult

// Clone returns an independent copy of the context.
func (ec ExecutionContext) Clone() ExecutionContext {
	out := make(ExecutionContext, len(ec))
	for k, v := range ec {
		out[k] = v
	}
	return out
}

// BuildExecutionContext projects the checklist's completed steps into an
// execution context. The projection is pure: it never mutates the
// checklist, and repeated calls on the same state yield identical results.
// Incomplete steps contribute no entry.
func BuildExecutionContext(c *Checklist) ExecutionContext {
	ec := make(ExecutionContext, len(c.Steps))
	for _, s := range c.Steps {
		if !s.Complete() {
			continue
		}
		id := s.Head().ID
		switch st := s.(type) {
		case *ManualStep:
			ec[id] = StepResult{Success: true, Value: strVal(st.Value)}
		case *ViewStep:
			ec[id] = StepResult{Success: true, Value: strVal(st.Output)}
		case *RawStep:
			ec[id] = StepResult{Success: boolVal(st.Success), Value: strVal(st.TxHash)}
		case *MethodStep:
			ec[id] = StepResult{Success: boolVal(st.Success), Value: strVal(st.Output)}
		}
	}
	return ec
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// boolVal treats an absent success flag as false: a transaction whose
// outcome was never recorded must not read as successful.
func boolVal(p *bool) bool {
	return p != nil && *p
}
