package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/metrics"
)

const (
	DefaultPeriodDays = 30
	// MaxPages bounds the per-page breakdown in visit stats.
	MaxPages = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// TrackVisit records a page view. callerIP is the address observed on the
// request; an empty value is stored as absent.
func (s *Service) TrackVisit(ctx context.Context, in models.SiteVisitCreate, callerIP string) (bool, error) {
	v := &models.SiteVisit{
		ID:        uuid.NewString(),
		Page:      in.Page,
		Timestamp: s.now().UTC(),
		UserAgent: in.UserAgent,
		Referrer:  in.Referrer,
	}
	if callerIP != "" {
		v.IPAddress = &callerIP
	}
	if err := s.repo.Insert(ctx, v); err != nil {
		logger.Errorf("error tracking visit: %v", err)
		return false, apperr.Storage("track visit", err)
	}
	metrics.SiteVisitsTracked.Inc()
	return true, nil
}

// GetVisitStats aggregates visits recorded in the last days days. On storage
// failure a zeroed result for the requested period is returned along with the
// error.
func (s *Service) GetVisitStats(ctx context.Context, days int) (models.VisitStats, error) {
	if days < 1 {
		return models.VisitStats{PageVisits: []models.PageCount{}, PeriodDays: days},
			apperr.Validation("days must be at least 1")
	}
	stats := models.VisitStats{PageVisits: []models.PageCount{}, PeriodDays: days}

	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	counts, err := s.repo.CountByPage(ctx, since, MaxPages)
	if err != nil {
		logger.Errorf("error getting visit stats: %v", err)
		return stats, apperr.Storage("visit stats", err)
	}
	for _, pc := range counts {
		stats.TotalVisits += pc.Count
	}
	if counts != nil {
		stats.PageVisits = counts
	}
	return stats, nil
}
