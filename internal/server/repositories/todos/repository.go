// Package todos declares the repository contract for a user's todo items.
package todos

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Repository defines todo storage. Every read is scoped by owner.
type Repository interface {
	// ListByUser returns the user's todos oldest first; never nil.
	ListByUser(ctx context.Context, userID string) ([]models.Todo, error)

	// Create inserts todo and returns the stored row.
	// common.ErrorNoRowsAffected is returned when nothing was inserted.
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	// GetByIDAndUser returns common.ErrorNotFound unless the todo exists and
	// belongs to userID.
	GetByIDAndUser(ctx context.Context, id, userID string) (*models.Todo, error)

	// Delete removes the todo by id; zero rows yields common.ErrorNoRowsAffected.
	Delete(ctx context.Context, id string) error
}
