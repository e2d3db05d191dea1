package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. It deliberately does not touch the database.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
