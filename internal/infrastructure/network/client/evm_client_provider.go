package client

import (
	"fmt"
	"sync"
	"time"

	"bridge_tvl/internal/domain/entity"

	"go.uber.org/zap"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
)

// EVMClientProvider dials EVM networks lazily and caches one client per chain.
type EVMClientProvider struct {
	clients           map[entity.ChainID]*EVMClient
	mu                sync.Mutex
	logger            *zap.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(rpcCallTimeout time.Duration, logger *zap.Logger) *EVMClientProvider {
	return &EVMClientProvider{
		clients:           make(map[entity.ChainID]*EVMClient),
		logger:            logger.Named("EVMClientProvider"),
		connectionTimeout: defaultProviderConnectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
	}
}

// GetClient retrieves the client for the network, connecting on first use.
func (p *EVMClientProvider) GetClient(netDef entity.NetworkDefinition) (*EVMClient, error) {
	if !netDef.Chain.IsEVM() {
		return nil, fmt.Errorf("%w: %s is not an EVM network", entity.ErrUnsupportedChain, netDef.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.Chain]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", zap.String("network", netDef.Name), zap.String("rpc_primary", netDef.PrimaryRPCURL))
	eth, err := DialEVM(netDef, p.connectionTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", zap.String("network", netDef.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	client := NewEVMClient(eth, netDef, p.rpcCallTimeout, p.logger)
	p.clients[netDef.Chain] = client
	return client, nil
}
