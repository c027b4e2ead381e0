package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	msgMustBeLoggedIn    = "Unauthorized: User must be logged in"
	msgTodoFieldsMissing = "Title and description are required"
	msgTodoAddFailed     = "Failed to add todo"
	msgTodoIDRequired    = "Todo ID is required"
	msgTodoNotFound      = "Todo not found or not owned by user"
	msgTodoDeleteFailed  = "Todo deletion failed"
	msgTodoListFailed    = "Failed to fetch todos"
)

type TodoService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db dbx.DBTX, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

// List returns every todo owned by userID.
func (s *TodoService) List(ctx context.Context, userID string) ([]models.Todo, error) {
	if userID == "" {
		return nil, common.Forbidden(msgMustBeLoggedIn)
	}

	items, err := s.repomanager.Todos(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Internal(msgTodoListFailed, err)
	}

	return items, nil
}

// Add stores a todo owned by userID and returns the created row.
func (s *TodoService) Add(ctx context.Context, userID, title, description string) (*models.Todo, error) {
	if userID == "" {
		return nil, common.Forbidden(msgMustBeLoggedIn)
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, common.BadRequest(msgTodoFieldsMissing)
	}

	todo, err := s.repomanager.Todos(s.db).Create(ctx, &models.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, common.Internal(msgTodoAddFailed, err)
	}

	return todo, nil
}

// Remove deletes the todo if, and only if, userID owns it. A todo owned by
// someone else is indistinguishable from a missing one.
func (s *TodoService) Remove(ctx context.Context, userID, todoID string) error {
	if userID == "" {
		return common.Forbidden(msgMustBeLoggedIn)
	}

	todoID = strings.TrimSpace(todoID)
	if todoID == "" {
		return common.BadRequest(msgTodoIDRequired)
	}

	// ids are uuids; anything else cannot name a row
	if _, err := uuid.Parse(todoID); err != nil {
		return common.NotFound(msgTodoNotFound)
	}

	repo := s.repomanager.Todos(s.db)

	if _, err := repo.GetByIDAndUser(ctx, todoID, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound(msgTodoNotFound)
		}
		return common.Internal(msgTodoDeleteFailed, err)
	}

	if err := repo.Delete(ctx, todoID); err != nil {
		return common.Internal(msgTodoDeleteFailed, err)
	}

	return nil
}
