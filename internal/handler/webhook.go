package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type webhookRequest struct {
	URL    string   `json:"url" binding:"required"`
	Events []string `json:"events" binding:"required"`
	Secret string   `json:"secret"`
}

// RegisterWebhook persists an event subscriber. Dispatch is not wired to
// any request path yet.
func (h *Handler) RegisterWebhook(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	id, err := h.webhooks.Register(c.Request.Context(), req.URL, req.Events, req.Secret)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id.String()})
}
