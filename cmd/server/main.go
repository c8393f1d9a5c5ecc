// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/agent"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/agent/llm"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/api"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/cache"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/config"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/crosssell"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/forecast"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/gate"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/pricing"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/warehouse/postgres"
	"github.com/ChayanikaArora26/Warehouse-Agent/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := postgres.NewStore(&cfg.Database, cfg.Warehouse.Schema)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to warehouse")
	}
	defer store.Close()

	crossSellCache, err := cache.NewCrossSellCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, cross-sell cache disabled")
		crossSellCache = cache.NewNoopCrossSellCache()
	}

	restockGate := gate.New(store, cfg.Warehouse.RestockThreshold)
	forecastLookup := forecast.NewLookup(store)
	crossSellRanker := crosssell.NewRanker(store, crossSellCache)
	pricingRunner := pricing.NewRunner(store)

	services := &api.Services{
		Gate:      restockGate,
		Forecast:  forecastLookup,
		CrossSell: crossSellRanker,
		Pricing:   pricingRunner,
	}

	// Without an API key the REST endpoints still work; only /ask is degraded.
	if cfg.Agent.LLMAPIKey != "" {
		registry := agent.NewCoreRegistry(agent.CoreServices{
			Gate:      restockGate,
			Forecast:  forecastLookup,
			CrossSell: crossSellRanker,
			Pricing:   pricingRunner,
		})
		client := llm.NewOpenAIClient(cfg.Agent.LLMEndpoint, cfg.Agent.LLMAPIKey, cfg.Agent.LLMModel)
		services.Agent = agent.NewDispatcher(client, registry, cfg.Agent.MaxSteps)
	} else {
		logger.Log.Warn().Msg("LLM_API_KEY not set, /ask endpoint disabled")
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
