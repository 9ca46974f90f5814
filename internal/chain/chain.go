// Package chain is the boundary to the blockchain networks a checklist
// acts on. The Client interface is the only capability the workflow core
// consumes; the JSON-RPC implementation in this package is one provider
// of it, and tests substitute fakes.
package chain

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"math/big"
)

// BlockRef identifies the block a read-only call executes against, in
// JSON-RPC block parameter form: "latest", "pending", or a hex number.
type BlockRef string

// Latest is the default block reference for view calls.
const Latest BlockRef = "latest"

// NumberRef returns the block reference for an explicit block number.
func NumberRef(n uint64) BlockRef {
	return BlockRef(hexutil.EncodeUint64(n))
}

// Block is the resolved identity of a block a call ran against.
type Block struct {
	Number uint64
	Hash   common.Hash
}

// CallMsg describes a read-only contract call.
type CallMsg struct {
	To   common.Address
	Data []byte
}

// TxRequest describes a transaction to sign and broadcast. A zero
// GasLimit requests estimation.
type TxRequest struct {
	ChainID  uint64
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

var (
	// ErrNoSigner is returned by SignAndSend when the client was dialed
	// without signing capability.
	ErrNoSigner = errors.New("chain: client has no signer configured")
	// ErrReverted is returned when a broadcast transaction was mined but
	// reverted.
	ErrReverted = errors.New("chain: transaction reverted")
	// ErrBlockNotFound is returned when a block reference resolves to no
	// known block.
	ErrBlockNotFound = errors.New("chain: block not found")
)

// Client is the chain capability the step executors consume. Implementations
// must be safe for concurrent use: independent steps execute in parallel
// against the same client.
type Client interface {
	// ChainID returns the live chain identifier of the connected network.
	ChainID(ctx context.Context) (uint64, error)

	// Call executes a read-only call at the given block reference and
	// returns the raw ABI-encoded result.
	Call(ctx context.Context, msg CallMsg, at BlockRef) ([]byte, error)

	// BlockByRef resolves a block reference to its number and hash.
	BlockByRef(ctx context.Context, at BlockRef) (Block, error)

	// SignAndSend signs the transaction, broadcasts it, invokes onHash as
	// soon as the hash is assigned (before mining), and returns once the
	// transaction settles. A mined-but-reverted transaction returns an
	// error wrapping ErrReverted; onHash will already have fired.
	SignAndSend(ctx context.Context, tx TxRequest, onHash func(common.Hash)) error
}
