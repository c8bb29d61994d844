package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantlab/portfolio-insight/internal/api"
	"github.com/quantlab/portfolio-insight/internal/cache"
	"github.com/quantlab/portfolio-insight/internal/config"
	"github.com/quantlab/portfolio-insight/internal/data"
	"github.com/quantlab/portfolio-insight/internal/forecast"
	"github.com/quantlab/portfolio-insight/internal/narrative"
	"github.com/quantlab/portfolio-insight/internal/pipeline"
	"github.com/quantlab/portfolio-insight/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting dashboard analysis service",
		logger.Int("port", cfg.Server.Port),
		logger.String("provider", cfg.MarketData.Provider),
		logger.Int("forecast_days", cfg.Forecast.Days),
		logger.Any("forecast_iterative", cfg.Forecast.Iterative),
	)

	// Initialize series cache (no-op when Redis is disabled)
	seriesCache, err := cache.New(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize series cache",
			logger.ErrorField(err),
		)
	}
	defer seriesCache.Close()

	// Initialize market data provider
	factory := data.NewFactory()
	provider, err := factory.Create(cfg.MarketData.Provider, data.ProviderConfig{
		BaseURL:      cfg.MarketData.BaseURL,
		FetchTimeout: cfg.MarketData.FetchTimeout,
		NewsCount:    cfg.MarketData.NewsCount,
	})
	if err != nil {
		logger.Fatal("Failed to initialize market data provider",
			logger.ErrorField(err),
		)
	}

	// Initialize forecaster
	forecaster := forecast.New(forecast.WithIterative(cfg.Forecast.Iterative))

	// Initialize advisor when a narrative provider is configured
	var advisor narrative.Advisor
	if cfg.Narrative.Provider != "" {
		advisor, err = narrative.NewAdvisor(cfg.Narrative)
		if err != nil {
			logger.Fatal("Failed to initialize advisor",
				logger.ErrorField(err),
			)
		}
	}

	// Initialize pipeline runner
	runner := pipeline.NewRunner(provider, forecaster,
		pipeline.WithCache(seriesCache),
		pipeline.WithFetchTimeout(cfg.MarketData.FetchTimeout),
		pipeline.WithDefaults(cfg.MarketData.DefaultYears, cfg.Forecast.Days),
	)

	// Set up router and middleware
	router := api.NewRouter(runner, advisor)
	middlewares := api.ChainMiddleware(
		api.CORSMiddleware(),
		api.LoggingMiddleware(),
		api.RecoveryMiddleware(),
		api.RateLimitMiddleware(10),
	)
	handler := middlewares(router)

	// Start HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down dashboard analysis service")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Dashboard analysis service stopped")
}
