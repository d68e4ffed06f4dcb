package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
type NetworkDefinition struct {
	Chain            ChainID  `json:"chain" yaml:"-"`
	EVMChainID       uint64   `json:"evmChainId,omitempty" yaml:"evmChainId"`
	Name             string   `json:"name" yaml:"name"`
	Identifier       string   `json:"identifier" yaml:"identifier"`
	NativeSymbol     string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	Decimals         int32    `json:"decimals" yaml:"decimals"`
	PrimaryRPCURL    string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs  []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	// Bridge contracts. On Solana TokenBridgeAddress/CoreBridgeAddress are program ids.
	CoreBridgeAddress  string `json:"coreBridgeAddress" yaml:"coreBridgeAddress"`
	TokenBridgeAddress string `json:"tokenBridgeAddress" yaml:"tokenBridgeAddress"`
	// CustodyAddress is the account holding locked tokens; on EVM and Terra it is the token bridge itself.
	CustodyAddress string `json:"custodyAddress" yaml:"custodyAddress"`
}
