package todos

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps todos in process memory in insertion order.
type MemoryRepository struct {
	mu    sync.Mutex
	items []models.Todo
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Todo, 0)
	for _, t := range r.items {
		if t.UserID == userID {
			out = append(out, models.Todo{ID: t.ID, Title: t.Title, Description: t.Description})
		}
	}
	return out, nil
}

func (r *MemoryRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *todo
	created.ID = uuid.NewString()
	r.items = append(r.items, created)

	return &created, nil
}

func (r *MemoryRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.items {
		if t.ID == id && t.UserID == userID {
			return &t, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, t := range r.items {
		if t.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNoRowsAffected
}
