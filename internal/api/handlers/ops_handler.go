package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChayanikaArora26/Warehouse-Agent/internal/crosssell"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/domain"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/forecast"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/gate"
	"github.com/ChayanikaArora26/Warehouse-Agent/internal/pricing"
	"github.com/ChayanikaArora26/Warehouse-Agent/pkg/logger"
)

// OpsHandler exposes the structured REST endpoints next to the /ask facade.
type OpsHandler struct {
	gate      *gate.Gate
	forecast  *forecast.Lookup
	crossSell *crosssell.Ranker
	pricing   *pricing.Runner
}

func NewOpsHandler(g *gate.Gate, f *forecast.Lookup, cs *crosssell.Ranker, p *pricing.Runner) *OpsHandler {
	return &OpsHandler{gate: g, forecast: f, crossSell: cs, pricing: p}
}

// ForecastSummary handles GET /api/v1/forecast/summary.
func (h *OpsHandler) ForecastSummary(c *gin.Context) {
	totals, err := h.forecast.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": totals})
}

// ForecastSeries handles GET /api/v1/forecast/:sku.
func (h *OpsHandler) ForecastSeries(c *gin.Context) {
	points, err := h.forecast.Series(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

// CrossSell handles GET /api/v1/cross-sell/:sku?n=3.
func (h *OpsHandler) CrossSell(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	suggestions, err := h.crossSell.TopCrossSells(c.Request.Context(), c.Param("sku"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suggestions})
}

// Restock handles POST /api/v1/restock.
func (h *OpsHandler) Restock(c *gin.Context) {
	var req domain.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	decision, err := h.gate.Submit(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": decision})
}

// PendingActions handles GET /api/v1/restock/pending.
func (h *OpsHandler) PendingActions(c *gin.Context) {
	actions, err := h.gate.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": actions})
}

// Price handles GET /api/v1/price/:productId.
func (h *OpsHandler) Price(c *gin.Context) {
	rec, err := h.pricing.Latest(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recommendation for product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

// respondError maps domain errors to status codes without leaking internals.
func respondError(c *gin.Context, err error) {
	var schemaErr *domain.SchemaMismatchError
	var ledgerErr *domain.LedgerWriteError
	var queryErr *domain.QueryError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &schemaErr):
		logger.Log.Error().Err(err).Msg("schema mismatch")
		c.JSON(http.StatusBadGateway, gin.H{"error": "warehouse schema mismatch"})
	case errors.As(err, &ledgerErr):
		logger.Log.Error().Err(err).Msg("ledger write failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "decision ledger unavailable"})
	case errors.As(err, &queryErr):
		logger.Log.Error().Err(err).Msg("warehouse query failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "warehouse unavailable"})
	default:
		logger.Log.Error().Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
