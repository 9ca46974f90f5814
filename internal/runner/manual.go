package runner

import (
	"context"
	"fmt"

	"github.com/chainrun/chainrun/internal/model"
)

// CompleteManual records the value supplied by a manual step's executor.
// No external call is involved; the value is the step's result and the
// step is successful by construction.
func (r *Runner) CompleteManual(ctx context.Context, stepID, value string) error {
	step, err := r.readyStep(stepID)
	if err != nil {
		return err
	}
	ms, ok := step.(*model.ManualStep)
	if !ok {
		return fmt.Errorf("%w: %q is %s, not manual", ErrWrongKind, stepID, step.Kind())
	}

	r.markExecuting(stepID)
	r.commit(ctx, stepID, model.KindManual,
		model.StepResult{Success: true, Value: value},
		func() { ms.Value = model.String(value) },
	)
	return nil
}
