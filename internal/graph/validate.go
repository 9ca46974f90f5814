package graph

import (
	"fmt"
	"strings"

	"github.com/chainrun/chainrun/internal/model"
)

// ValidationError reports structural defects that make a checklist's
// dependency graph unusable: repeated step IDs or depends_on entries that
// name no existing step.
type ValidationError struct {
	DuplicateIDs []string
	DanglingRefs []DanglingRef
}

// DanglingRef is a depends_on entry pointing at a nonexistent step.
type DanglingRef struct {
	StepID    string
	DependsOn string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.DuplicateIDs) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate step IDs: %s", strings.Join(e.DuplicateIDs, ", ")))
	}
	for _, ref := range e.DanglingRefs {
		parts = append(parts, fmt.Sprintf("step %q depends on unknown step %q", ref.StepID, ref.DependsOn))
	}
	return "invalid dependency graph: " + strings.Join(parts, "; ")
}

// CycleError reports steps trapped in (or behind) a dependency cycle.
type CycleError struct {
	StepIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving steps: %s", strings.Join(e.StepIDs, ", "))
}

// Validate checks step identity and dependency references. It returns nil
// iff every step ID is unique and every depends_on entry resolves. This
// check is a precondition for Levels, Cycles and NextSteps; their behavior
// on an invalid graph is unspecified.
func Validate(steps []model.Step) error {
	seen := make(map[string]bool, len(steps))
	var verr ValidationError
	for _, s := range steps {
		id := s.Head().ID
		if seen[id] {
			verr.DuplicateIDs = append(verr.DuplicateIDs, id)
		}
		seen[id] = true
	}
	for _, s := range steps {
		h := s.Head()
		for _, dep := range h.DependsOn {
			if !seen[dep] {
				verr.DanglingRefs = append(verr.DanglingRefs, DanglingRef{StepID: h.ID, DependsOn: dep})
			}
		}
	}
	if len(verr.DuplicateIDs) > 0 || len(verr.DanglingRefs) > 0 {
		return &verr
	}
	return nil
}

// ValidateAcyclic runs Validate and then cycle detection, returning a
// CycleError naming the affected steps when the graph is not a DAG.
func ValidateAcyclic(steps []model.Step) error {
	if err := Validate(steps); err != nil {
		return err
	}
	cyclic := Cycles(steps)
	if len(cyclic) == 0 {
		return nil
	}
	ids := make([]string, 0, len(cyclic))
	for _, s := range cyclic {
		ids = append(ids, s.Head().ID)
	}
	return &CycleError{StepIDs: ids}
}
