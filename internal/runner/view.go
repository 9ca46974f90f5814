package runner

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/model"
)

// CompleteView executes a read-only contract call at the given block
// reference. The live chain ID is verified against the step's declaration
// before anything touches the contract; on mismatch the step aborts with
// only the in-flight marker written.
func (r *Runner) CompleteView(ctx context.Context, stepID string, at chain.BlockRef) error {
	step, err := r.readyStep(stepID)
	if err != nil {
		return err
	}
	vs, ok := step.(*model.ViewStep)
	if !ok {
		return fmt.Errorf("%w: %q is %s, not view", ErrWrongKind, stepID, step.Kind())
	}
	if !common.IsHexAddress(vs.To) {
		return fmt.Errorf("step %q: %q is not a hex address", stepID, vs.To)
	}

	client, err := r.pool.Client(ctx, vs.ChainID)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	r.markExecuting(stepID)

	live, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	if live != vs.ChainID {
		return &ChainMismatchError{StepID: stepID, Declared: vs.ChainID, Live: live}
	}

	params, err := r.renderParams(vs.Params)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	method, err := chain.ParseSignature(vs.Method)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	data, err := method.Pack(params)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	// Resolve the reference first and pin the call to the resolved
	// number, so the recorded block is exactly the one answered from.
	block, err := client.BlockByRef(ctx, at)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	raw, err := client.Call(ctx, chain.CallMsg{To: common.HexToAddress(vs.To), Data: data}, chain.NumberRef(block.Number))
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	output, err := method.Unpack(raw)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	r.commit(ctx, stepID, model.KindView,
		model.StepResult{Success: true, Value: output},
		func() {
			vs.Output = model.String(output)
			vs.BlockNumber = model.Uint64(block.Number)
			vs.BlockHash = model.String(block.Hash.Hex())
		},
	)
	return nil
}
