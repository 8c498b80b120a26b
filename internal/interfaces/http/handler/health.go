package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Pinger is satisfied by *persistence.Database
type Pinger interface {
	Ping() error
}

// HealthHandler reports database reachability and the active cache backend
type HealthHandler struct {
	db           Pinger
	cacheBackend string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, cacheBackend string) *HealthHandler {
	return &HealthHandler{db: db, cacheBackend: cacheBackend}
}

// Check godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "ok", Cache: h.cacheBackend}
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
