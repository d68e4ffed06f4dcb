package networkdefinition

import (
	"fmt"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/configloader"
)

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger port.Logger
	defs   map[entity.ChainID]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		Chain:              entity.ChainEthereum,
		EVMChainID:         1,
		Name:               "Ethereum Mainnet",
		Identifier:         "ethereum",
		NativeSymbol:       "ETH",
		Decimals:           18,
		PrimaryRPCURL:      "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:    []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL:   "https://etherscan.io",
		CoreBridgeAddress:  "0x98f3c9e6E3fAce36bAAd05FE09d375Ef1464288B",
		TokenBridgeAddress: "0x3ee18B2214AFF97000D974cf647E7C347E8fa585",
		CustodyAddress:     "0x3ee18B2214AFF97000D974cf647E7C347E8fa585",
	}
	BSC = entity.NetworkDefinition{
		Chain:              entity.ChainBSC,
		EVMChainID:         56,
		Name:               "BNB Smart Chain",
		Identifier:         "bsc",
		NativeSymbol:       "BNB",
		Decimals:           18,
		PrimaryRPCURL:      "https://1rpc.io/bnb",
		FallbackRPCURLs:    []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL:   "https://bscscan.com",
		CoreBridgeAddress:  "0x98f3c9e6E3fAce36bAAd05FE09d375Ef1464288B",
		TokenBridgeAddress: "0xB6F6D86a8f9879A9c87f643768d9efc38c1Da6E7",
		CustodyAddress:     "0xB6F6D86a8f9879A9c87f643768d9efc38c1Da6E7",
	}
	Solana = entity.NetworkDefinition{
		Chain:              entity.ChainSolana,
		Name:               "Solana Mainnet Beta",
		Identifier:         "solana",
		NativeSymbol:       "SOL",
		Decimals:           9,
		PrimaryRPCURL:      "https://api.mainnet-beta.solana.com",
		BlockExplorerURL:   "https://explorer.solana.com",
		CoreBridgeAddress:  "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth",
		TokenBridgeAddress: "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb",
		CustodyAddress:     "GugU1tP7doLeTw9hQP51xRJyS8Da1fWxuiy2rVrnMD2m",
	}
	Terra = entity.NetworkDefinition{
		Chain:              entity.ChainTerra,
		Name:               "Terra Columbus",
		Identifier:         "terra",
		NativeSymbol:       "LUNA",
		Decimals:           6,
		PrimaryRPCURL:      "https://lcd.terra.dev",
		BlockExplorerURL:   "https://finder.terra.money",
		CoreBridgeAddress:  "terra1dq03ugtd40zu9hcgdzrsq6z2z4hwhc9tqk2uy5",
		TokenBridgeAddress: "terra10nmmwe8r3g99a9newtqa7a75xfgs2e8z87r2sf",
		CustodyAddress:     "terra10nmmwe8r3g99a9newtqa7a75xfgs2e8z87r2sf",
	}
)

// NewNetworkDefinitionProvider creates a provider seeded with the built-in
// definitions and patched with any overrides from the config.
func NewNetworkDefinitionProvider(log port.Logger, cfg *configloader.Config) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger: log,
		defs: map[entity.ChainID]entity.NetworkDefinition{
			entity.ChainEthereum: Ethereum,
			entity.ChainBSC:      BSC,
			entity.ChainSolana:   Solana,
			entity.ChainTerra:    Terra,
		},
	}
	if cfg == nil {
		return p
	}

	for chain, def := range p.defs {
		override, ok := cfg.NetworkOverride(chain)
		if !ok {
			continue
		}
		def = applyOverride(def, override)
		p.defs[chain] = def
		p.logger.Debug(fmt.Sprintf("Network '%s' patched from config", def.Name), "rpc", def.PrimaryRPCURL)
	}
	if cfg.Terra.LCDURL != "" {
		terra := p.defs[entity.ChainTerra]
		terra.PrimaryRPCURL = cfg.Terra.LCDURL
		p.defs[entity.ChainTerra] = terra
	}
	return p
}

func applyOverride(def entity.NetworkDefinition, o configloader.NetworkNodeConfig) entity.NetworkDefinition {
	if o.RPCURL != "" {
		def.PrimaryRPCURL = o.RPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		def.FallbackRPCURLs = o.FallbackRPCURLs
	}
	if o.TokenBridgeAddress != "" {
		def.TokenBridgeAddress = o.TokenBridgeAddress
		if def.Chain != entity.ChainSolana {
			def.CustodyAddress = o.TokenBridgeAddress
		}
	}
	if o.CoreBridgeAddress != "" {
		def.CoreBridgeAddress = o.CoreBridgeAddress
	}
	if o.CustodyAddress != "" {
		def.CustodyAddress = o.CustodyAddress
	}
	return def
}

// GetAllNetworkDefinitions returns the definitions in TVL priority order.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	out := make([]entity.NetworkDefinition, 0, len(entity.TVLPriority))
	for _, chain := range entity.TVLPriority {
		out = append(out, p.defs[chain])
	}
	return out
}

// GetNetworkDefinition returns the definition for a chain.
func (p *NetworkDefinitionProvider) GetNetworkDefinition(chain entity.ChainID) (entity.NetworkDefinition, bool) {
	def, ok := p.defs[chain]
	return def, ok
}

// MustGet is GetNetworkDefinition for the four built-in chains, which are always present.
func (p *NetworkDefinitionProvider) MustGet(chain entity.ChainID) entity.NetworkDefinition {
	def, ok := p.defs[chain]
	if !ok {
		panic(fmt.Sprintf("no network definition for %s", chain))
	}
	return def
}
