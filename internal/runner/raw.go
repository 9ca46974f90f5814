package runner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/model"
)

// CompleteRaw signs and broadcasts a pre-encoded transaction and records
// the hash once the transaction settles. Raw payloads carry no live chain
// ID comparison: the declared chain ID goes straight into the signature
// domain of the transaction.
func (r *Runner) CompleteRaw(ctx context.Context, stepID string) error {
	step, err := r.readyStep(stepID)
	if err != nil {
		return err
	}
	rs, ok := step.(*model.RawStep)
	if !ok {
		return fmt.Errorf("%w: %q is %s, not raw", ErrWrongKind, stepID, step.Kind())
	}
	if !common.IsHexAddress(rs.To) {
		return fmt.Errorf("step %q: %q is not a hex address", stepID, rs.To)
	}
	data, err := hexutil.Decode(rs.Calldata)
	if err != nil {
		return fmt.Errorf("step %q: calldata: %w", stepID, err)
	}
	value := new(big.Int)
	if rs.Value != nil {
		if value, err = chain.ParseWei(*rs.Value); err != nil {
			return fmt.Errorf("step %q: %w", stepID, err)
		}
	}

	client, err := r.pool.Client(ctx, rs.ChainID)
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	r.markExecuting(stepID)

	var hash common.Hash
	err = client.SignAndSend(ctx, chain.TxRequest{
		ChainID: rs.ChainID,
		To:      common.HexToAddress(rs.To),
		Data:    data,
		Value:   value,
	}, func(h common.Hash) { hash = h })
	if err != nil {
		return fmt.Errorf("step %q: %w", stepID, err)
	}

	hex := hash.Hex()
	r.commit(ctx, stepID, model.KindRaw,
		model.StepResult{Success: true, Value: hex},
		func() {
			rs.TxHash = model.String(hex)
			rs.Success = model.Bool(true)
		},
	)
	return nil
}
