package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ChayanikaArora26/Warehouse-Agent/pkg/logger"
)

// Asker answers a free-form operations question.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type AskHandler struct {
	agent Asker
}

func NewAskHandler(agent Asker) *AskHandler {
	return &AskHandler{agent: agent}
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// AskGET handles GET /ask?prompt=...
func (h *AskHandler) AskGET(c *gin.Context) {
	h.answer(c, c.Query("prompt"))
}

// AskPOST handles POST /ask with a JSON body {"prompt": "..."}.
func (h *AskHandler) AskPOST(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	h.answer(c, req.Prompt)
}

func (h *AskHandler) answer(c *gin.Context, prompt string) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	if h.agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is not configured"})
		return
	}

	response, err := h.agent.Ask(c.Request.Context(), prompt)
	if err != nil {
		logger.Log.Error().Err(err).Msg("agent failed to answer")
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant failed to answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}
