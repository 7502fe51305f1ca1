package portfolio

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// MemoryRepository keeps documents in process memory, encoded as JSON so that
// callers never share slices with the stored copy. Used by tests and the seed
// check command.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(ctx context.Context) (*models.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.docs[models.PortfolioID]
	if !ok {
		return nil, nil
	}
	var p models.Portfolio
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MemoryRepository) Replace(ctx context.Context, doc *models.Portfolio) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = b
	return nil
}

func (m *MemoryRepository) Insert(ctx context.Context, doc *models.Portfolio) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; ok {
		return ErrDuplicateID
	}
	m.docs[doc.ID] = b
	return nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.docs)), nil
}

func (m *MemoryRepository) DeleteStrays(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id := range m.docs {
		if id != models.PortfolioID {
			delete(m.docs, id)
			n++
		}
	}
	return n, nil
}
