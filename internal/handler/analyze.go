package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	URL            string `json:"url" binding:"required"`
	InitialThought string `json:"initialThought" binding:"required"`
}

// Analyze starts a new analysis conversation from a URL and an initial
// thought. Responds with the new conversation id.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	id, err := h.analysis.Analyze(c.Request.Context(), req.URL, req.InitialThought)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, id.String())
}
