package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"bridge_tvl/internal/app/provider"
	"bridge_tvl/internal/app/service"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/configloader"
	"bridge_tvl/internal/pkg/logger"
	"bridge_tvl/internal/pkg/vaa"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "bridgectl",
		Usage: "inspect bridge TVL and balances, create wrapped assets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config/config.yml", EnvVars: []string{"CONFIG_PATH"}, Usage: "path to the YAML configuration"},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
			&cli.DurationFlag{Name: "timeout", Value: time.Minute, Usage: "overall deadline of the command"},
		},
		Commands: []*cli.Command{
			{
				Name:   "tvl",
				Usage:  "refresh and print the bridge TVL",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "chain", Usage: "print only this chain"}},
				Action: runTVL,
			},
			{
				Name:  "balance",
				Usage: "print one wallet's balance of one asset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "chain", Required: true},
					&cli.StringFlag{Name: "asset", Required: true, Usage: "mint, token contract or native denom"},
					&cli.StringFlag{Name: "wallet", Required: true},
				},
				Action: runBalance,
			},
			{
				Name:  "create-wrapped",
				Usage: "create the wrapped asset attested by a VAA",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "chain", Value: "solana"},
					&cli.StringFlag{Name: "vaa", Required: true, Usage: "signed VAA, hex or base64"},
					&cli.StringFlag{Name: "keypair", Required: true, EnvVars: []string{"SOLANA_KEYPAIR_PATH"}, Usage: "payer keypair file"},
				},
				Action: runCreateWrapped,
			},
			{
				Name:   "vaa",
				Usage:  "decode a signed VAA",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "hex", Required: true, Usage: "signed VAA, hex or base64"}},
				Action: runVAA,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context, opts provider.Options) (*provider.Container, *zap.Logger, error) {
	cfg, err := configloader.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	configloader.ApplyEnv(cfg)
	cfg.Logging.Level = c.String("log-level")

	zl, err := logger.New(cfg.Logging.Level, "console")
	if err != nil {
		return nil, nil, err
	}
	container, err := provider.NewContainer(cfg, zl, opts)
	if err != nil {
		return nil, nil, err
	}
	return container, zl, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runTVL(c *cli.Context) error {
	app, _, err := setup(c, provider.Options{})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	report := app.TVL.Refresh(ctx)
	if c.String("chain") == "" {
		return printJSON(report)
	}
	chain, err := entity.ParseChainID(c.String("chain"))
	if err != nil {
		return err
	}
	state, _ := app.TVL.ChainState(chain)
	return printJSON(state)
}

func runBalance(c *cli.Context) error {
	chain, err := entity.ParseChainID(c.String("chain"))
	if err != nil {
		return err
	}
	app, _, err := setup(c, provider.Options{})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	session := service.NewBalanceSession(ctx, app.Fetchers, logger.With("component", "bridgectl"))
	defer session.Close()

	updates, unsubscribe := session.Source.Subscribe()
	defer unsubscribe()

	session.Source.SelectAsset(chain, c.String("asset"))
	session.ConnectWallet(chain, c.String("wallet"))

	started := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-updates:
			if !ok {
				return errors.New("balance tracker closed")
			}
			switch state.State {
			case entity.StateFetching:
				started = true
			case entity.StateLoaded:
				return printJSON(state)
			case entity.StateIdle:
				if started || session.Source.Current().State == entity.StateIdle {
					return errors.New("no balance for this asset and wallet")
				}
			}
		}
	}
}

func runCreateWrapped(c *cli.Context) error {
	chain, err := entity.ParseChainID(c.String("chain"))
	if err != nil {
		return err
	}
	signedVAA, err := vaa.Decode(c.String("vaa"))
	if err != nil {
		return err
	}
	signer, err := solana.PrivateKeyFromSolanaKeygenFile(c.String("keypair"))
	if err != nil {
		return fmt.Errorf("failed to read keypair: %w", err)
	}

	app, zl, err := setup(c, provider.Options{Signer: signer})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	zl.Info("Creating wrapped asset", zap.String("chain", chain.String()), zap.String("payer", signer.PublicKey().String()))
	tx, err := app.Wrapped.CreateWrapped(ctx, chain, signer.PublicKey().String(), signedVAA)
	if err != nil {
		return err
	}
	return printJSON(tx)
}

type vaaView struct {
	Version          uint8      `json:"version"`
	GuardianSetIndex uint32     `json:"guardianSetIndex"`
	Signatures       int        `json:"signatures"`
	Timestamp        time.Time  `json:"timestamp"`
	Nonce            uint32     `json:"nonce"`
	EmitterChain     string     `json:"emitterChain"`
	EmitterAddress   string     `json:"emitterAddress"`
	Sequence         uint64     `json:"sequence"`
	ConsistencyLevel uint8      `json:"consistencyLevel"`
	Digest           string     `json:"digest"`
	AssetMeta        *assetView `json:"assetMeta,omitempty"`
}

type assetView struct {
	TokenAddress string `json:"tokenAddress"`
	TokenChain   string `json:"tokenChain"`
	Decimals     uint8  `json:"decimals"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

func runVAA(c *cli.Context) error {
	raw, err := vaa.Decode(c.String("hex"))
	if err != nil {
		return err
	}
	v, err := vaa.Parse(raw)
	if err != nil {
		return err
	}
	digest := v.Digest()
	view := vaaView{
		Version:          v.Version,
		GuardianSetIndex: v.GuardianSetIndex,
		Signatures:       len(v.Signatures),
		Timestamp:        v.Timestamp,
		Nonce:            v.Nonce,
		EmitterChain:     v.EmitterChainID().String(),
		EmitterAddress:   hex.EncodeToString(v.EmitterAddress[:]),
		Sequence:         v.Sequence,
		ConsistencyLevel: v.ConsistencyLevel,
		Digest:           hex.EncodeToString(digest[:]),
	}
	if meta, err := v.AssetMeta(); err == nil {
		view.AssetMeta = &assetView{
			TokenAddress: hex.EncodeToString(meta.TokenAddress[:]),
			TokenChain:   meta.TokenChainID().String(),
			Decimals:     meta.Decimals,
			Symbol:       meta.Symbol,
			Name:         meta.Name,
		}
	}
	return printJSON(view)
}
