package users

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps users in process memory. It follows the same
// error contract as PostgresRepository.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.byID[user.ID] = *user

	return user, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) SetRefreshToken(ctx context.Context, userID, token string) error {
	return r.update(userID, func(u *models.User) bool {
		u.RefreshToken = sql.NullString{String: token, Valid: true}
		return true
	})
}

func (r *MemoryRepository) ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	return r.update(userID, func(u *models.User) bool {
		if !u.RefreshToken.Valid || u.RefreshToken.String != oldToken {
			return false
		}
		u.RefreshToken = sql.NullString{String: newToken, Valid: true}
		return true
	})
}

func (r *MemoryRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	return r.update(userID, func(u *models.User) bool {
		u.RefreshToken = sql.NullString{}
		return true
	})
}

// update applies fn under the lock; a missing user or a false result is
// reported as common.ErrorNotFound, like an UPDATE matching no rows.
func (r *MemoryRepository) update(userID string, fn func(u *models.User) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || !fn(&u) {
		return common.ErrorNotFound
	}
	r.byID[userID] = u
	return nil
}
