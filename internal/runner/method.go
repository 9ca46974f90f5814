package runner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/ctxlog"
	"github.com/chainrun/chainrun/internal/model"
)

// CompleteMethod encodes a contract method call with templated parameters
// and submits it as a transaction. Two callback points are distinguished:
// the hash acknowledgment, recorded as soon as the network accepts the
// transaction, and settlement. A failure after submission began is
// captured into the step's output as "ran and failed" rather than raised;
// failures before submission (mismatched chain, unresolvable template,
// encoding) propagate as "could not be attempted".
func (r *Runner) CompleteMethod(ctx context.Context, stepID string) error {
	step, err := r.readyStep(stepID)
	if err != nil {
		return err
	}
	ms, ok := step.(*model.MethodStep)
	if !ok {
		return fmt.Errorf("%w: %q is %s, not method", ErrWrongKind, stepID, step.Kind())
	}
	if !common.IsHexAddress(ms.To) {
		return fmt.Errorf("step %q: %q is not a hex address", stepID, ms.To)
	}

	client, err := r.pool.Client(ctx, ms.ChainID)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	r.markExecuting(stepID)

	live, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	if live != ms.ChainID {
		return &ChainMismatchError{StepID: stepID, Declared: ms.ChainID, Live: live}
	}

	params, err := r.renderParams(ms.Params)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	method, err := chain.ParseSignature(ms.Method)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	data, err := method.Pack(params)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}
	value := new(big.Int)
	if ms.Value != nil {
		if value, err = chain.ParseWei(*ms.Value); err != nil {
			return fmt.Errorf("step %q: %w", stepID, err)
		}
	}

	sendErr := client.SignAndSend(ctx, chain.TxRequest{
		ChainID: ms.ChainID,
		To:      common.HexToAddress(ms.To),
		Data:    data,
		Value:   value,
	}, func(h common.Hash) {
		// Hash acknowledgment: persist immediately so the hash survives
		// even when settlement later fails.
		r.mu.Lock()
		ms.TxHash = model.String(h.Hex())
		r.mu.Unlock()
	})

	if sendErr != nil {
		msg := sendErr.Error()
		ctxlog.FromContext(ctx).Warn("method submission failed", "step", stepID, "error", msg)
		r.commit(ctx, stepID, model.KindMethod,
			model.StepResult{Success: false, Value: msg},
			func() {
				ms.Success = model.Bool(false)
				ms.Output = model.String(msg)
			},
		)
		return nil
	}

	r.commit(ctx, stepID, model.KindMethod,
		model.StepResult{Success: true},
		func() {
			ms.Success = model.Bool(true)
			// Clear any error captured by an earlier failed attempt, so a
			// context rebuilt from the document matches the live one.
			ms.Output = nil
		},
	)
	return nil
}
