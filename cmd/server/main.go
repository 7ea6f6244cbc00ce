package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"FinSight/internal/assistant"
	"FinSight/internal/config"
	"FinSight/internal/directory"
	"FinSight/internal/logger"
	"FinSight/internal/marketdata"
	"FinSight/internal/metrics"
	"FinSight/internal/resolver"
	"FinSight/internal/scheduler"
	"FinSight/internal/server"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Info("FinSight starting")

	m := metrics.NewMetrics()

	// Init market-data fetcher
	var base marketdata.Fetcher
	switch cfg.Market.Provider {
	case "mock":
		base = &marketdata.MockFetcher{}
	default:
		base = marketdata.NewYahooFetcher(cfg.Market.Proxy, cfg.MarketTimeout(), zlog, m)
	}
	cache := marketdata.NewCachedFetcher(base, cfg.CacheTTL(), m)
	zlog.Info("market data provider ready", zap.String("provider", cache.Name()))

	// Init directory and resolver
	dir := directory.New(cache, cfg.Directory.Symbols, cfg.Directory.RefreshWorkers, zlog, m)
	res := resolver.New(dir)

	// Init assistant; no API key degrades to the local handlers
	var completer assistant.Completer
	if cfg.AI.APIKey != "" {
		client := assistant.NewOpenAIClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model, cfg.AITimeout(), zlog)
		client.MaxTokens = cfg.AI.MaxTokens
		client.Temperature = *cfg.AI.Temperature
		completer = client
		zlog.Info("chat completions enabled", zap.String("model", cfg.AI.Model))
	} else {
		zlog.Info("no AI API key configured, using local query handlers")
	}
	processor := assistant.NewProcessor(res, cache, completer, zlog, m)

	// Init scheduler
	sched := scheduler.New(dir, cache, cfg.RefreshTimeout(), zlog)
	refreshInterval := time.Duration(cfg.Directory.RefreshInterval) * time.Hour
	if err := sched.RegisterAll(refreshInterval); err != nil {
		zlog.Fatal("register cron tasks", zap.Error(err))
	}
	if cfg.Directory.RefreshOnStart {
		if err := sched.RunRefreshNow(); err != nil {
			zlog.Warn("initial directory refresh failed, serving anyway", zap.Error(err))
		}
	}
	sched.Start()
	defer sched.Stop()

	// Init HTTP server
	srv := server.New(dir, res, cache, processor, m, zlog,
		cfg.Market.HistoryDays, time.Duration(cfg.Server.RequestTimeout)*time.Second)
	httpSrv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Router(),
	}

	go func() {
		zlog.Info("HTTP server listening", zap.String("addr", cfg.Addr()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zlog.Info("shutdown signal received, stopping")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		zlog.Error("HTTP shutdown", zap.Error(err))
	}
	zlog.Info("FinSight stopped")
}
