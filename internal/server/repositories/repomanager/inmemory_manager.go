package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves process-local repositories. The db
// argument of the factories is ignored; state lives for the manager's
// lifetime and is shared by every caller.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	todos *todos.MemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Todos(db dbx.DBTX) todos.Repository {
	return m.todos
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		todos: todos.NewMemoryRepository(),
	}
}
