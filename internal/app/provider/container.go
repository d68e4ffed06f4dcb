package provider

import (
	"fmt"
	"time"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/app/service"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/configloader"
	"bridge_tvl/internal/infrastructure/indexer"
	"bridge_tvl/internal/infrastructure/network/client"
	networkdefinition "bridge_tvl/internal/infrastructure/network/definition"
	"bridge_tvl/internal/infrastructure/pricestore"
	"bridge_tvl/internal/infrastructure/terra"
	"bridge_tvl/internal/infrastructure/tokenloader"
	"bridge_tvl/internal/infrastructure/wormhole"
	"bridge_tvl/internal/pkg/logger"
	"bridge_tvl/internal/pkg/metrics"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Options carries the optional parts of the wiring.
type Options struct {
	// Signer enables wrapped-asset creation on Solana.
	Signer solana.PrivateKey
	// Registerer receives the metrics; nil disables them.
	Registerer prometheus.Registerer
}

// Container holds the wired application graph.
type Container struct {
	Config   *configloader.Config
	Networks *networkdefinition.NetworkDefinitionProvider
	Metrics  *metrics.Metrics
	Fetchers BalanceFetchers
	Tokens   *tokenloader.TokenListLoader
	Prices   *service.PriceEnricher
	TVL      *service.TVLService
	Wrapped  *service.WrappedDispatcher
}

// NewContainer builds every client and service from cfg.
func NewContainer(cfg *configloader.Config, zl *zap.Logger, opts Options) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	log := logger.NewSlogAdapter()

	var m *metrics.Metrics
	if opts.Registerer != nil {
		m = metrics.New(opts.Registerer)
	}

	networks := networkdefinition.NewNetworkDefinitionProvider(log, cfg)
	rpcTimeout := time.Duration(cfg.Performance.RPCCallTimeoutSeconds) * time.Second
	priceTTL := time.Duration(cfg.Prices.CacheTTLSeconds) * time.Second

	solanaDef := networks.MustGet(entity.ChainSolana)
	terraDef := networks.MustGet(entity.ChainTerra)

	evmClients := client.NewEVMClientProvider(rpcTimeout, zl)
	solanaClient := client.NewSolanaClient(solanaDef.PrimaryRPCURL, rpcTimeout, zl)
	terraClient := client.NewTerraClient(terraDef.PrimaryRPCURL, millis(cfg.Terra.RequestTimeoutMillis), zl)

	fetchers := BalanceFetchers{
		Ethereum: newLazyEVMFetcher(evmClients, networks.MustGet(entity.ChainEthereum)),
		BSC:      newLazyEVMFetcher(evmClients, networks.MustGet(entity.ChainBSC)),
		Solana:   solanaClient,
		Terra:    terraClient,
	}

	tokens := tokenloader.NewTokenListLoader(
		cfg.Solana.TokenListURL,
		time.Duration(cfg.Solana.TokenListCacheMinutes)*time.Minute,
		rpcTimeout,
		zl,
	)
	var onChain tokenloader.AccountDataReader
	if cfg.Solana.MetaplexFallback {
		onChain = solanaClient
	}
	metadata := tokenloader.NewMetadataResolver(tokens, onChain, zl)

	var fallback port.MintPriceSource
	if cfg.Prices.DEXScreener.Enabled {
		fallback = pricestore.NewDEXScreenerClient(cfg.Prices.DEXScreener.BaseURL, millis(cfg.Prices.DEXScreener.RequestTimeoutMillis), priceTTL, zl)
	}
	markets := pricestore.NewMarketTable(cfg.Prices.Markets)
	zl.Info("Price markets loaded", zap.Int("markets", markets.Len()), zap.Bool("dexscreener_fallback", fallback != nil))
	prices := service.NewPriceEnricher(
		tokens,
		markets,
		pricestore.NewSerumPriceSource(solanaClient, priceTTL, zl),
		fallback,
		cfg.Performance.MaxConcurrentRoutines,
		m,
		logger.With("component", "PriceEnricher"),
	)

	covalent := indexer.NewCovalentClient(cfg.Covalent.BaseURL, cfg.Covalent.APIKey, millis(cfg.Covalent.RequestTimeoutMillis), zl)
	swapRates := terra.NewSwapRateClient(cfg.Terra.SwapRateURL, millis(cfg.Terra.RequestTimeoutMillis), zl)

	sources := []port.TVLSource{
		service.NewEVMTVLSource(networks.MustGet(entity.ChainEthereum), covalent, logger.With("component", "EVMTVLSource", "chain", "ethereum")),
		service.NewEVMTVLSource(networks.MustGet(entity.ChainBSC), covalent, logger.With("component", "EVMTVLSource", "chain", "bsc")),
		service.NewSolanaTVLSource(solanaDef, solanaClient, metadata, prices, logger.With("component", "SolanaTVLSource")),
		service.NewTerraTVLSource(terraDef, terraClient, swapRates, cfg.Terra.IconBaseURL, logger.With("component", "TerraTVLSource")),
	}

	var creator port.WrappedAssetCreator
	if opts.Signer != nil {
		programs, err := wormhole.ProgramsFor(solanaDef)
		if err != nil {
			return nil, err
		}
		creator = wormhole.NewSolanaWrappedCreator(
			solanaClient,
			programs,
			opts.Signer,
			time.Duration(cfg.Solana.ConfirmTimeoutSeconds)*time.Second,
			millis(cfg.Solana.ConfirmPollMillis),
			zl,
		)
	}

	return &Container{
		Config:   cfg,
		Networks: networks,
		Metrics:  m,
		Fetchers: fetchers,
		Tokens:   tokens,
		Prices:   prices,
		TVL:      service.NewTVLService(sources, m, logger.With("component", "TVLService")),
		Wrapped:  service.NewWrappedDispatcher(creator, m, logger.With("component", "WrappedDispatcher")),
	}, nil
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
