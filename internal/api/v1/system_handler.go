package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/isroiljohn-creator/posbonbot/internal/api/response"
	"github.com/isroiljohn-creator/posbonbot/pkg/logger"
)

const (
	defaultSystemLogLimit = 100
	maxSystemLogLimit     = 1000
)

type SystemHandler struct {
	ring *logger.Ring
}

func NewSystemHandler(ring *logger.Ring) *SystemHandler {
	return &SystemHandler{ring: ring}
}

func RegisterSystemRoutes(group *gin.RouterGroup, ring *logger.Ring) {
	handler := NewSystemHandler(ring)
	system := group.Group("/system")
	system.GET("/logs", handler.Logs)
}

// Logs serves the in-memory log buffer, newest first.
func (h *SystemHandler) Logs(c *gin.Context) {
	limit := parseIntOrDefault(c.Query("limit"), defaultSystemLogLimit)
	if limit > maxSystemLogLimit {
		limit = maxSystemLogLimit
	}

	entries := h.ring.Recent(c.Query("level"), c.Query("keyword"), limit)
	response.Success(c, gin.H{
		"logs":  entries,
		"count": len(entries),
	})
}
