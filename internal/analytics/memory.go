package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// MemoryRepository is an in-memory Repository used by tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	visits []models.SiteVisit
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Insert(ctx context.Context, v *models.SiteVisit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits = append(m.visits, *v)
	return nil
}

func (m *MemoryRepository) CountByPage(ctx context.Context, since time.Time, limit int) ([]models.PageCount, error) {
	m.mu.RLock()
	counts := map[string]int{}
	for _, v := range m.visits {
		if !v.Timestamp.Before(since) {
			counts[v.Page]++
		}
	}
	m.mu.RUnlock()

	out := make([]models.PageCount, 0, len(counts))
	for page, n := range counts {
		out = append(out, models.PageCount{Page: page, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Page < out[j].Page
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Visits returns a copy of every stored visit.
func (m *MemoryRepository) Visits() []models.SiteVisit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.SiteVisit(nil), m.visits...)
}
