// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/api/handlers"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/api/middleware"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/crosssell"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/forecast"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/gate"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/pricing"
)

type Services struct {
	Agent     handlers.Asker
	Gate      *gate.Gate
	Forecast  *forecast.Lookup
	CrossSell *crosssell.Ranker
	Pricing   *pricing.Runner
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	askHandler := handlers.NewAskHandler(services.Agent)
	router.GET("/ask", askHandler.AskGET)
	router.POST("/ask", askHandler.AskPOST)

	if services.Gate != nil {
		opsHandler := handlers.NewOpsHandler(services.Gate, services.Forecast, services.CrossSell, services.Pricing)
		apiGroup := router.Group("/api/v1")
		{
			apiGroup.GET("/forecast/summary", opsHandler.ForecastSummary)
			apiGroup.GET("/forecast/:sku", opsHandler.ForecastSeries)
			apiGroup.GET("/cross-sell/:sku", opsHandler.CrossSell)
			apiGroup.POST("/restock", opsHandler.Restock)
			apiGroup.GET("/restock/pending", opsHandler.PendingActions)
			apiGroup.GET("/price/:productId", opsHandler.Price)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
