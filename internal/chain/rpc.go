package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainrun/chainrun/internal/ctxlog"
)

// defaultPollInterval paces receipt polling after broadcast.
const defaultPollInterval = 2 * time.Second

// RPCClient implements Client over an Ethereum JSON-RPC endpoint
// (HTTP, WS or IPC, per the dialed URL).
type RPCClient struct {
	rpc          *rpc.Client
	signer       Signer
	pollInterval time.Duration
}

// Dial connects to a JSON-RPC endpoint. The signer may be nil for a
// read-only client; SignAndSend will then refuse to run.
func Dial(ctx context.Context, url string, signer Signer) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &RPCClient{rpc: c, signer: signer, pollInterval: defaultPollInterval}, nil
}

// Close tears down the underlying RPC connection.
func (c *RPCClient) Close() {
	c.rpc.Close()
}

// ChainID returns the live chain identifier via eth_chainId.
func (c *RPCClient) ChainID(ctx context.Context) (uint64, error) {
	var id hexutil.Big
	if err := c.rpc.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	return id.ToInt().Uint64(), nil
}

// Call executes eth_call at the given block reference.
func (c *RPCClient) Call(ctx context.Context, msg CallMsg, at BlockRef) ([]byte, error) {
	arg := map[string]any{
		"to":   msg.To,
		"data": hexutil.Bytes(msg.Data),
	}
	var out hexutil.Bytes
	if err := c.rpc.CallContext(ctx, &out, "eth_call", arg, string(at)); err != nil {
		return nil, fmt.Errorf("eth_call: %w", err)
	}
	return out, nil
}

// rpcHeader is the subset of an eth_getBlockByNumber result we resolve.
type rpcHeader struct {
	Number hexutil.Uint64 `json:"number"`
	Hash   common.Hash    `json:"hash"`
}

// BlockByRef resolves a block reference via eth_getBlockByNumber.
func (c *RPCClient) BlockByRef(ctx context.Context, at BlockRef) (Block, error) {
	var head *rpcHeader
	if err := c.rpc.CallContext(ctx, &head, "eth_getBlockByNumber", string(at), false); err != nil {
		return Block{}, fmt.Errorf("eth_getBlockByNumber: %w", err)
	}
	if head == nil {
		return Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, at)
	}
	return Block{Number: uint64(head.Number), Hash: head.Hash}, nil
}

// SignAndSend assembles a transaction from the request, fills nonce, gas
// price and (when not overridden) gas limit from the node, signs it with
// the configured signer, broadcasts it, and polls for the receipt. onHash
// fires right after broadcast acceptance, before the receipt exists.
func (c *RPCClient) SignAndSend(ctx context.Context, tx TxRequest, onHash func(common.Hash)) error {
	if c.signer == nil {
		return ErrNoSigner
	}
	logger := ctxlog.FromContext(ctx).With("to", tx.To.Hex(), "chain_id", tx.ChainID)
	from := c.signer.Address()

	var nonce hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &nonce, "eth_getTransactionCount", from, "pending"); err != nil {
		return fmt.Errorf("eth_getTransactionCount: %w", err)
	}

	var gasPrice hexutil.Big
	if err := c.rpc.CallContext(ctx, &gasPrice, "eth_gasPrice"); err != nil {
		return fmt.Errorf("eth_gasPrice: %w", err)
	}

	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	gas := tx.GasLimit
	if gas == 0 {
		estimateArg := map[string]any{
			"from":  from,
			"to":    tx.To,
			"data":  hexutil.Bytes(tx.Data),
			"value": (*hexutil.Big)(value),
		}
		var estimated hexutil.Uint64
		if err := c.rpc.CallContext(ctx, &estimated, "eth_estimateGas", estimateArg); err != nil {
			return fmt.Errorf("eth_estimateGas: %w", err)
		}
		gas = uint64(estimated)
	}

	to := tx.To
	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    uint64(nonce),
		GasPrice: gasPrice.ToInt(),
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     tx.Data,
	})
	signed, err := c.signer.SignTx(unsigned, new(big.Int).SetUint64(tx.ChainID))
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(raw)); err != nil {
		return fmt.Errorf("eth_sendRawTransaction: %w", err)
	}
	logger.Info("transaction broadcast", "hash", hash.Hex(), "nonce", uint64(nonce), "gas", gas)
	if onHash != nil {
		onHash(hash)
	}

	return c.waitMined(ctx, hash)
}

// rpcReceipt is the subset of a transaction receipt we inspect.
type rpcReceipt struct {
	Status hexutil.Uint64 `json:"status"`
}

func (c *RPCClient) waitMined(ctx context.Context, hash common.Hash) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		var receipt *rpcReceipt
		if err := c.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
			return fmt.Errorf("eth_getTransactionReceipt: %w", err)
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return fmt.Errorf("%w: %s", ErrReverted, hash.Hex())
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
