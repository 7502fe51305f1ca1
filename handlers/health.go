package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
)

var startTime = time.Now()

type HealthHandler struct {
	portfolio PortfolioService
	ready     map[string]Pinger
}

func NewHealthHandler(portfolio PortfolioService, ready map[string]Pinger) *HealthHandler {
	return &HealthHandler{portfolio: portfolio, ready: ready}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Portfolio API is running", "status": "healthy"})
}

// Health always answers 200 and reports the database as connected, no_data
// or error depending on whether the portfolio can be read.
func (h *HealthHandler) Health(c *gin.Context) {
	_, err := h.portfolio.GetPersonalInfo(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected", "message": "Portfolio API is operational"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "no_data", "message": "Portfolio API is operational"})
	default:
		logger.Errorf("health check failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "unhealthy", "database": "error", "error": err.Error()})
	}
}

// Ready answers 200 only when every registered dependency responds.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	deps := make(map[string]bool, len(h.ready))
	for name, p := range h.ready {
		err := p.Ping(ctx)
		deps[name] = err == nil
		if err != nil {
			logger.Warnf("readiness: %s unavailable: %v", name, err)
			ready = false
		}
	}

	uptime := time.Since(startTime).Round(time.Second).String()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
}
