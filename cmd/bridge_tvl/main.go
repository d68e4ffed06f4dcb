package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridge_tvl/internal/app/provider"
	"bridge_tvl/internal/infrastructure/configloader"
	"bridge_tvl/internal/infrastructure/restapi"
	"bridge_tvl/internal/pkg/logger"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yml"
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	configloader.ApplyEnv(cfg)

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := provider.Options{Registerer: registry}
	if keypair := os.Getenv("SOLANA_KEYPAIR_PATH"); keypair != "" {
		signer, err := solana.PrivateKeyFromSolanaKeygenFile(keypair)
		if err != nil {
			zapLogger.Fatal("Failed to load Solana keypair", zap.String("path", keypair), zap.Error(err))
		}
		opts.Signer = signer
		zapLogger.Info("Wrapped asset creation enabled", zap.String("payer", signer.PublicKey().String()))
	}

	app, err := provider.NewContainer(cfg, zapLogger, opts)
	if err != nil {
		zapLogger.Fatal("Failed to wire application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refreshTimeout := time.Duration(cfg.TVL.RefreshTimeoutSeconds) * time.Second
	go app.TVL.Run(ctx, time.Duration(cfg.TVL.RefreshIntervalSeconds)*time.Second, refreshTimeout)

	gin.SetMode(gin.ReleaseMode)
	handler := restapi.NewHandler(app.TVL, app.Fetchers, app.Wrapped, refreshTimeout, zapLogger)
	router := restapi.SetupRouter(handler, restapi.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gatherer:       registry,
	}, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
