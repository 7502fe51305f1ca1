package contact

import (
	"context"
	"sort"
	"sync"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
)

// MemoryRepository is an in-memory Repository used by tests. It enforces the
// same reference_id uniqueness as the Mongo index.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.ContactMessage
	byRef map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]*models.ContactMessage),
		byRef: make(map[string]string),
	}
}

func (m *MemoryRepository) Insert(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byRef[msg.ReferenceID]; ok {
		return ErrDuplicateReference
	}
	if _, ok := m.byID[msg.ID]; ok {
		return ErrDuplicateReference
	}
	cp := *msg
	m.byID[msg.ID] = &cp
	m.byRef[msg.ReferenceID] = msg.ID
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, limit, skip int64) ([]models.ContactMessage, error) {
	m.mu.RLock()
	all := make([]models.ContactMessage, 0, len(m.byID))
	for _, msg := range m.byID {
		all = append(all, *msg)
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID < all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if skip >= int64(len(all)) {
		return []models.ContactMessage{}, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryRepository) SetStatus(ctx context.Context, id, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[id]
	if !ok || msg.Status == status {
		return false, nil
	}
	msg.Status = status
	return true, nil
}

// Len returns the number of stored messages.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
