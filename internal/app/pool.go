package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/chainrun/chainrun/internal/chain"
	"github.com/chainrun/chainrun/internal/config"
	"github.com/chainrun/chainrun/internal/ctxlog"
)

// pool is a lazy, caching client pool over the configured networks. A
// connection is dialed the first time a step needs its chain and reused
// for the rest of the process.
type pool struct {
	mu       sync.Mutex
	networks map[uint64]config.Network
	signer   chain.Signer
	clients  map[uint64]*chain.RPCClient
}

func newPool(networks map[uint64]config.Network, signer chain.Signer) *pool {
	return &pool{
		networks: networks,
		signer:   signer,
		clients:  make(map[uint64]*chain.RPCClient),
	}
}

// Client returns the cached client for chainID, dialing on first use.
func (p *pool) Client(ctx context.Context, chainID uint64) (chain.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[chainID]; ok {
		return c, nil
	}
	net, ok := p.networks[chainID]
	if !ok {
		return nil, fmt.Errorf("chain %d: no network configured", chainID)
	}

	ctxlog.FromContext(ctx).Debug("dialing network",
		"chain_id", chainID, "name", net.Name)
	c, err := chain.Dial(ctx, net.RPCURL, p.signer)
	if err != nil {
		return nil, fmt.Errorf("chain %d (%s): %w", chainID, net.Name, err)
	}
	p.clients[chainID] = c
	return c, nil
}

// Close releases every dialed connection.
func (p *pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		c.Close()
	}
	p.clients = make(map[uint64]*chain.RPCClient)
}
