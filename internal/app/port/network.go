package port

import "bridge_tvl/internal/domain/entity"

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns every supported network in TVL priority order.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	GetNetworkDefinition(chain entity.ChainID) (entity.NetworkDefinition, bool)
}
