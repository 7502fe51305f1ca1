package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
)

// Archiver stores a snapshot of a portfolio document that is about to be
// replaced. internal/storage provides the MinIO implementation.
type Archiver interface {
	Archive(ctx context.Context, key string, body []byte) error
}

// Service exposes the portfolio aggregate and its sections. It holds no state
// between calls.
type Service struct {
	repo     Repository
	archiver Archiver
	now      func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// WithArchiver enables snapshots of replaced documents.
func (s *Service) WithArchiver(a Archiver) *Service {
	s.archiver = a
	return s
}

// GetPortfolio returns the current aggregate. It fails with apperr.ErrNotFound
// when nothing is stored and apperr.ErrStorage when the store cannot be read.
func (s *Service) GetPortfolio(ctx context.Context) (*models.Portfolio, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		logger.Errorf("error fetching portfolio data: %v", err)
		return nil, apperr.Storage("fetch portfolio", err)
	}
	if p == nil {
		return nil, apperr.NotFound("portfolio")
	}
	return p, nil
}

// UpdatePortfolio replaces the aggregate with doc and stamps updated_at. The
// document always carries models.PortfolioID; any other id is rejected.
func (s *Service) UpdatePortfolio(ctx context.Context, doc *models.Portfolio) error {
	if doc == nil {
		return apperr.Validation("portfolio document is required")
	}
	switch doc.ID {
	case "":
		doc.ID = models.PortfolioID
	case models.PortfolioID:
	default:
		return apperr.Validation("portfolio id must be %q, got %q", models.PortfolioID, doc.ID)
	}

	prev, err := s.repo.Get(ctx)
	if err != nil {
		logger.Errorf("error updating portfolio data: %v", err)
		return apperr.Storage("update portfolio", err)
	}

	now := s.now().UTC()
	if prev != nil {
		if now.Before(prev.UpdatedAt) {
			now = prev.UpdatedAt
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = prev.CreatedAt
		}
		s.archive(ctx, prev)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	if err := s.repo.Replace(ctx, doc); err != nil {
		logger.Errorf("error updating portfolio data: %v", err)
		return apperr.Storage("update portfolio", err)
	}
	if err := s.removeStrays(ctx); err != nil {
		logger.Errorf("portfolio updated but stray documents remain: %v", err)
	}
	return nil
}

// archive snapshots prev; failures are logged and never block the update.
func (s *Service) archive(ctx context.Context, prev *models.Portfolio) {
	if s.archiver == nil {
		return
	}
	body, err := json.Marshal(prev)
	if err != nil {
		logger.Warnf("portfolio archive: encode: %v", err)
		return
	}
	key := ArchiveKey(prev.UpdatedAt)
	if err := s.archiver.Archive(ctx, key, body); err != nil {
		logger.Warnf("portfolio archive: upload %s: %v", key, err)
		return
	}
	logger.Debugf("portfolio archive: stored %s", key)
}

// ArchiveKey names the snapshot of a document last updated at t.
func ArchiveKey(t time.Time) string {
	return fmt.Sprintf("portfolio/%s.json", t.UTC().Format("20060102T150405.000000000Z"))
}

func (s *Service) GetPersonalInfo(ctx context.Context) (*models.PersonalInfo, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	info := p.Personal
	if info.Stats == nil {
		info.Stats = []models.Statistic{}
	}
	return &info, nil
}

func (s *Service) GetSkills(ctx context.Context) (models.SkillSet, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if p.Skills == nil {
		return models.SkillSet{}, nil
	}
	return p.Skills, nil
}

func (s *Service) GetExperience(ctx context.Context) ([]models.WorkExperience, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if p.Experience == nil {
		return []models.WorkExperience{}, nil
	}
	return p.Experience, nil
}

func (s *Service) GetProjects(ctx context.Context) ([]models.Project, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	if p.Projects == nil {
		return []models.Project{}, nil
	}
	return p.Projects, nil
}

func (s *Service) GetAbout(ctx context.Context) (*models.AboutInfo, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	about := p.About
	if about.Highlights == nil {
		about.Highlights = []models.Highlight{}
	}
	return &about, nil
}

func (s *Service) GetCredentials(ctx context.Context) (*models.Credentials, error) {
	p, err := s.GetPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	creds := p.Credentials
	if creds.Education == nil {
		creds.Education = []models.Education{}
	}
	if creds.Certifications == nil {
		creds.Certifications = []models.Certification{}
	}
	return &creds, nil
}
