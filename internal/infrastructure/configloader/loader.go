package configloader

import (
	"fmt"
	"os"
	"strings"

	"bridge_tvl/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	AllowedOrigins      []string `yaml:"allowedOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CovalentConfig holds the holdings indexer settings.
type CovalentConfig struct {
	APIKey               string `yaml:"apiKey"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TerraConfig holds Terra LCD and market endpoints.
type TerraConfig struct {
	LCDURL               string `yaml:"lcdURL"`
	SwapRateURL          string `yaml:"swapRateURL"`
	IconBaseURL          string `yaml:"iconBaseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// SolanaConfig holds Solana RPC and token list settings.
type SolanaConfig struct {
	TokenListURL          string `yaml:"tokenListURL"`
	TokenListCacheMinutes int    `yaml:"tokenListCacheMinutes"`
	ConfirmTimeoutSeconds int    `yaml:"confirmTimeoutSeconds"`
	ConfirmPollMillis     int64  `yaml:"confirmPollMillis"`
	MetaplexFallback      bool   `yaml:"metaplexFallback"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	Enabled              bool   `yaml:"enabled"`
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// PriceConfig holds Serum market settings used for Solana price enrichment.
type PriceConfig struct {
	CacheTTLSeconds int                      `yaml:"cacheTTLSeconds"`
	SerumProgramID  string                   `yaml:"serumProgramId"`
	Markets         map[string]entity.Market `yaml:"markets"`
	DEXScreener     DEXScreenerConfig        `yaml:"dexScreener"`
}

// TVLConfig controls the background TVL refresher.
type TVLConfig struct {
	RefreshIntervalSeconds int `yaml:"refreshIntervalSeconds"`
	RefreshTimeoutSeconds  int `yaml:"refreshTimeoutSeconds"`
}

// PerformanceConfig holds performance-related configurations.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
	RPCCallTimeoutSeconds int `yaml:"rpc_call_timeout_seconds"`
}

// NetworkNodeConfig overrides parts of a built-in network definition.
type NetworkNodeConfig struct {
	Identifier         string   `yaml:"identifier"`
	RPCURL             string   `yaml:"rpcURL"`
	FallbackRPCURLs    []string `yaml:"fallbackRpcURLs"`
	TokenBridgeAddress string   `yaml:"tokenBridgeAddress"`
	CoreBridgeAddress  string   `yaml:"coreBridgeAddress"`
	CustodyAddress     string   `yaml:"custodyAddress"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig        `yaml:"server"`
	Logging     LoggingConfig       `yaml:"logging"`
	Covalent    CovalentConfig      `yaml:"covalent"`
	Terra       TerraConfig         `yaml:"terra"`
	Solana      SolanaConfig        `yaml:"solana"`
	Prices      PriceConfig         `yaml:"prices"`
	TVL         TVLConfig           `yaml:"tvl"`
	Performance PerformanceConfig   `yaml:"performance"`
	Networks    []NetworkNodeConfig `yaml:"networks"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 15
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 10
	}

	if cfg.Covalent.BaseURL == "" {
		cfg.Covalent.BaseURL = "https://api.covalenthq.com/v1"
	}
	if cfg.Covalent.RequestTimeoutMillis <= 0 {
		cfg.Covalent.RequestTimeoutMillis = 15000
	}

	if cfg.Terra.LCDURL == "" {
		cfg.Terra.LCDURL = "https://lcd.terra.dev"
	}
	if cfg.Terra.SwapRateURL == "" {
		cfg.Terra.SwapRateURL = "https://fcd.terra.dev/v1/market/swaprate/uusd"
	}
	if cfg.Terra.IconBaseURL == "" {
		cfg.Terra.IconBaseURL = "https://assets.terra.money/icon/60"
	}
	if cfg.Terra.RequestTimeoutMillis <= 0 {
		cfg.Terra.RequestTimeoutMillis = 10000
	}

	if cfg.Solana.TokenListURL == "" {
		cfg.Solana.TokenListURL = "https://cdn.jsdelivr.net/gh/solana-labs/token-list@main/src/tokens/solana.tokenlist.json"
	}
	if cfg.Solana.TokenListCacheMinutes <= 0 {
		cfg.Solana.TokenListCacheMinutes = 60
	}
	if cfg.Solana.ConfirmTimeoutSeconds <= 0 {
		cfg.Solana.ConfirmTimeoutSeconds = 60
	}
	if cfg.Solana.ConfirmPollMillis <= 0 {
		cfg.Solana.ConfirmPollMillis = 500
	}

	if cfg.Prices.CacheTTLSeconds <= 0 {
		cfg.Prices.CacheTTLSeconds = 60
	}
	if cfg.Prices.SerumProgramID == "" {
		cfg.Prices.SerumProgramID = DefaultSerumProgramID
	}
	if len(cfg.Prices.Markets) == 0 {
		cfg.Prices.Markets = DefaultMarkets()
	}
	for symbol, m := range cfg.Prices.Markets {
		if m.ProgramID == "" {
			m.ProgramID = cfg.Prices.SerumProgramID
		}
		if m.Name == "" {
			m.Name = symbol + "/USDC"
		}
		cfg.Prices.Markets[symbol] = m
	}
	if cfg.Prices.DEXScreener.BaseURL == "" {
		cfg.Prices.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.Prices.DEXScreener.RequestTimeoutMillis <= 0 {
		cfg.Prices.DEXScreener.RequestTimeoutMillis = 10000
	}

	if cfg.TVL.RefreshIntervalSeconds <= 0 {
		cfg.TVL.RefreshIntervalSeconds = 300
	}
	if cfg.TVL.RefreshTimeoutSeconds <= 0 {
		cfg.TVL.RefreshTimeoutSeconds = 60
	}
}

func validate(cfg *Config) error {
	for _, n := range cfg.Networks {
		if _, err := entity.ParseChainID(n.Identifier); err != nil {
			return fmt.Errorf("invalid network override %q: %w", n.Identifier, err)
		}
	}
	return nil
}

// ApplyEnv overrides secrets and endpoints from environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("COVALENT_API_KEY"); v != "" {
		cfg.Covalent.APIKey = v
	}
	if v := os.Getenv("TERRA_LCD_URL"); v != "" {
		cfg.Terra.LCDURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if !strings.HasPrefix(v, ":") {
			v = ":" + v
		}
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	for env, id := range map[string]string{
		"ETHEREUM_RPC_URL": "ethereum",
		"BSC_RPC_URL":      "bsc",
		"SOLANA_RPC_URL":   "solana",
	} {
		if v := os.Getenv(env); v != "" {
			cfg.overrideRPC(id, v)
		}
	}
}

func (c *Config) overrideRPC(identifier, url string) {
	for i := range c.Networks {
		if strings.EqualFold(c.Networks[i].Identifier, identifier) {
			c.Networks[i].RPCURL = url
			return
		}
	}
	c.Networks = append(c.Networks, NetworkNodeConfig{Identifier: identifier, RPCURL: url})
}

// NetworkOverride returns the override block for a chain, if any.
func (c *Config) NetworkOverride(chain entity.ChainID) (NetworkNodeConfig, bool) {
	for _, n := range c.Networks {
		if id, err := entity.ParseChainID(n.Identifier); err == nil && id == chain {
			return n, true
		}
	}
	return NetworkNodeConfig{}, false
}
