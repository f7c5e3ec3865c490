package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/preechaw/sewline/pkg/clients/llmchat"
)

// ChatHandler proxies natural-language questions to the assistant service.
type ChatHandler struct {
	client llmchat.Client
	logger *zap.Logger
}

// NewChatHandler constructs the HTTP adapter for the chat assistant.
func NewChatHandler(client llmchat.Client, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{client: client, logger: logger}
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask serves POST /api/chat.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		respondError(c, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.client.Ask(c.Request.Context(), strings.TrimSpace(req.Question))
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "assistant unavailable")
		return
	}
	respondData(c, answer, nil)
}

// Health serves GET /api/chat/health.
func (h *ChatHandler) Health(c *gin.Context) {
	status, err := h.client.Health(c.Request.Context())
	if err != nil {
		h.logger.Warn("chat health check failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "assistant unavailable")
		return
	}
	respondData(c, status, nil)
}
