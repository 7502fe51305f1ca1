package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

type failingRepo struct{ err error }

func (f failingRepo) Insert(context.Context, *models.SiteVisit) error { return f.err }
func (f failingRepo) CountByPage(context.Context, time.Time, int) ([]models.PageCount, error) {
	return nil, f.err
}

func trackAt(t *testing.T, svc *Service, at time.Time, page string) {
	t.Helper()
	svc.now = func() time.Time { return at }
	ok, err := svc.TrackVisit(context.Background(), models.SiteVisitCreate{Page: page}, "")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTrackVisitStoresCallerIP(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ua := "curl/8"

	ok, err := svc.TrackVisit(context.Background(), models.SiteVisitCreate{Page: "/home", UserAgent: &ua}, "10.0.0.7")
	require.NoError(t, err)
	require.True(t, ok)

	visits := repo.Visits()
	require.Len(t, visits, 1)
	require.NotEmpty(t, visits[0].ID)
	require.Equal(t, "/home", visits[0].Page)
	require.Equal(t, "curl/8", *visits[0].UserAgent)
	require.Nil(t, visits[0].Referrer)
	require.Equal(t, "10.0.0.7", *visits[0].IPAddress)

	_, err = svc.TrackVisit(context.Background(), models.SiteVisitCreate{Page: "/about"}, "")
	require.NoError(t, err)
	require.Nil(t, repo.Visits()[1].IPAddress)
}

func TestTrackVisitStorageError(t *testing.T) {
	svc := NewService(failingRepo{err: errors.New("down")})
	ok, err := svc.TrackVisit(context.Background(), models.SiteVisitCreate{Page: "/"}, "")
	require.False(t, ok)
	require.ErrorIs(t, err, apperr.ErrStorage)
}

func TestGetVisitStatsWindow(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	trackAt(t, svc, now.Add(-10*24*time.Hour), "/old")
	trackAt(t, svc, now.Add(-6*24*time.Hour), "/projects")
	trackAt(t, svc, now.Add(-2*time.Hour), "/home")
	trackAt(t, svc, now.Add(-time.Hour), "/home")
	trackAt(t, svc, now.Add(-time.Minute), "/about")

	svc.now = func() time.Time { return now }
	stats, err := svc.GetVisitStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 7, stats.PeriodDays)
	require.Equal(t, []models.PageCount{
		{Page: "/home", Count: 2},
		{Page: "/about", Count: 1},
		{Page: "/projects", Count: 1},
	}, stats.PageVisits)

	sum := 0
	for _, pc := range stats.PageVisits {
		sum += pc.Count
	}
	require.Equal(t, sum, stats.TotalVisits)
	require.Equal(t, 4, stats.TotalVisits)
}

func TestGetVisitStatsEmpty(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	stats, err := svc.GetVisitStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, models.VisitStats{TotalVisits: 0, PageVisits: []models.PageCount{}, PeriodDays: 7}, stats)
}

func TestGetVisitStatsRejectsNonPositiveDays(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.GetVisitStats(context.Background(), 0)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetVisitStatsStorageError(t *testing.T) {
	svc := NewService(failingRepo{err: errors.New("down")})
	stats, err := svc.GetVisitStats(context.Background(), 30)
	require.ErrorIs(t, err, apperr.ErrStorage)
	require.Equal(t, models.VisitStats{PageVisits: []models.PageCount{}, PeriodDays: 30}, stats)
}
