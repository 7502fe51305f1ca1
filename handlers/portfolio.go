package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

type PortfolioHandler struct {
	svc PortfolioService
}

func NewPortfolioHandler(svc PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

// Register mounts the portfolio routes on rg (normally /api/portfolio).
func (h *PortfolioHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", section(h, PortfolioService.GetPortfolio, "Portfolio data not found"))
	rg.PUT("", h.Update)
	rg.GET("/personal", section(h, PortfolioService.GetPersonalInfo, "Personal information not found"))
	rg.GET("/skills", section(h, PortfolioService.GetSkills, "Skills data not found"))
	rg.GET("/experience", section(h, PortfolioService.GetExperience, "Experience data not found"))
	rg.GET("/projects", section(h, PortfolioService.GetProjects, "Projects data not found"))
	rg.GET("/about", section(h, PortfolioService.GetAbout, "About data not found"))
	rg.GET("/credentials", section(h, PortfolioService.GetCredentials, "Credentials data not found"))
}

// section serves one read-only projection of the aggregate.
func section[T any](h *PortfolioHandler, get func(PortfolioService, context.Context) (T, error), notFound string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := get(h.svc, c.Request.Context())
		if err != nil {
			respondError(c, err, notFound)
			return
		}
		ok(c, data)
	}
}

// Update replaces the whole aggregate.
func (h *PortfolioHandler) Update(c *gin.Context) {
	var doc models.Portfolio
	if !bindJSON(c, &doc, doc.Validate) {
		return
	}
	if err := h.svc.UpdatePortfolio(c.Request.Context(), &doc); err != nil {
		respondError(c, err, "Portfolio data not found")
		return
	}
	okMessage(c, "Portfolio updated successfully", doc)
}
