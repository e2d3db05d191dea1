package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type continueRequest struct {
	Message string `json:"message" binding:"required"`
	URL     string `json:"url"`
}

// GetMessages returns the ordered transcript of a conversation. An unknown
// id yields an empty list, not a 404.
func (h *Handler) GetMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid conversation id"})
		return
	}

	messages, err := h.analysis.Messages(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// ContinueConversation appends a user message, reruns the analysis, and
// returns the new user/assistant message pair.
func (h *Handler) ContinueConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid conversation id"})
		return
	}

	var req continueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	messages, err := h.analysis.Continue(c.Request.Context(), id, req.Message, req.URL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
