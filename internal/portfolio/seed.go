package portfolio

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/logger"
)

//go:embed seed_portfolio.yaml
var defaultSeed []byte

// LoadSeed decodes a YAML portfolio document from path, or the embedded
// default when path is empty, and validates it.
func LoadSeed(path string) (*models.Portfolio, error) {
	data, name := defaultSeed, "embedded seed"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		data, name = b, path
	}
	var p models.Portfolio
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &p, nil
}

// Seed stores doc as the portfolio if none is stored yet and reports whether
// it did. Seeding when the portfolio exists is a no-op, also when a concurrent
// seed wins the insert. Documents stored under any other id are removed.
func (s *Service) Seed(ctx context.Context, doc *models.Portfolio) (bool, error) {
	existing, err := s.repo.Get(ctx)
	if err != nil {
		return false, apperr.Storage("seed portfolio", err)
	}
	if existing != nil {
		logger.Infof("portfolio data already exists, skipping seed")
		return false, s.removeStrays(ctx)
	}

	now := s.now().UTC()
	doc.ID = models.PortfolioID
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if err := s.repo.Insert(ctx, doc); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			logger.Infof("portfolio data seeded concurrently, skipping seed")
			return false, s.removeStrays(ctx)
		}
		return false, apperr.Storage("seed portfolio", err)
	}
	logger.Infof("portfolio data seeded")
	return true, s.removeStrays(ctx)
}

// removeStrays deletes documents stored under an id other than
// models.PortfolioID so the collection holds exactly one document.
func (s *Service) removeStrays(ctx context.Context) error {
	n, err := s.repo.DeleteStrays(ctx)
	if err != nil {
		return apperr.Storage("remove stray portfolio documents", err)
	}
	if n > 0 {
		logger.Warnf("removed %d portfolio document(s) not stored under id %q", n, models.PortfolioID)
	}
	return nil
}
