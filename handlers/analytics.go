package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

const defaultStatsDays = 30

type AnalyticsHandler struct {
	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// TrackVisit records a page view. The IP address comes from the connection,
// never from the body.
func (h *AnalyticsHandler) TrackVisit(c *gin.Context) {
	var in models.SiteVisitCreate
	if !bindJSON(c, &in, in.Validate) {
		return
	}
	if _, err := h.svc.TrackVisit(c.Request.Context(), in, c.ClientIP()); err != nil {
		respondError(c, err, "")
		return
	}
	okMessage(c, "Visit tracked successfully", nil)
}

func (h *AnalyticsHandler) Stats(c *gin.Context) {
	days, valid := intQuery(c, "days", defaultStatsDays)
	if !valid || days < 1 {
		fail(c, http.StatusBadRequest, "days must be a positive integer")
		return
	}
	stats, err := h.svc.GetVisitStats(c.Request.Context(), days)
	if err != nil {
		respondError(c, err, "")
		return
	}
	ok(c, stats)
}
