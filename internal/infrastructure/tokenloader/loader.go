package tokenloader

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SolanaMainnetChainID is the chainId the Solana token list uses for mainnet-beta.
const SolanaMainnetChainID = 101

const tokensCacheKey = "tokens"

type tokenList struct {
	Name   string                 `json:"name"`
	Tokens []entity.TokenMetadata `json:"tokens"`
}

// TokenListLoader implements port.TokenRegistry. The source is either an
// http(s) URL of a token-list document or a path to a local JSON file.
type TokenListLoader struct {
	source  string
	client  *fasthttp.Client
	timeout time.Duration
	cache   *cache.Cache
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewTokenListLoader creates a loader whose parsed list is kept for ttl.
func NewTokenListLoader(source string, ttl, timeout time.Duration, logger *zap.Logger) *TokenListLoader {
	return &TokenListLoader{
		source:  source,
		client:  &fasthttp.Client{},
		timeout: timeout,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger.Named("TokenListLoader"),
	}
}

// Tokens returns mainnet tokens keyed by mint. The returned map is shared and must not be modified.
func (l *TokenListLoader) Tokens(ctx context.Context) (map[string]entity.TokenMetadata, error) {
	if cached, ok := l.cache.Get(tokensCacheKey); ok {
		return cached.(map[string]entity.TokenMetadata), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache.Get(tokensCacheKey); ok {
		return cached.(map[string]entity.TokenMetadata), nil
	}

	data, err := l.read(ctx)
	if err != nil {
		l.logger.Warn("Failed to load token list", zap.String("source", l.source), zap.Error(err))
		return nil, err
	}
	tokens, err := parseTokenList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token list from %s: %w", l.source, err)
	}

	l.cache.SetDefault(tokensCacheKey, tokens)
	l.logger.Info("Token list loaded", zap.String("source", l.source), zap.Int("count", len(tokens)))
	return tokens, nil
}

func (l *TokenListLoader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		body, status, err := httpclient.Get(ctx, l.client, l.source, l.timeout)
		if err != nil {
			return nil, err
		}
		if status != fasthttp.StatusOK {
			return nil, &httpclient.StatusError{URL: l.source, StatusCode: status, Body: body}
		}
		return body, nil
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read token list file %s: %w", l.source, err)
	}
	return data, nil
}

// parseTokenList accepts a token-list document or a bare array of tokens.
// Tokens for other clusters are dropped; the first entry for a mint wins.
func parseTokenList(data []byte) (map[string]entity.TokenMetadata, error) {
	var entries []entity.TokenMetadata
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
	} else {
		var list tokenList
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		entries = list.Tokens
	}

	tokens := make(map[string]entity.TokenMetadata, len(entries))
	for _, t := range entries {
		if t.Mint == "" {
			continue
		}
		if t.ChainID != 0 && t.ChainID != SolanaMainnetChainID {
			continue
		}
		if _, exists := tokens[t.Mint]; exists {
			continue
		}
		tokens[t.Mint] = t
	}
	return tokens, nil
}
