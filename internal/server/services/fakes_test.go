package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	todosrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo wraps the in-memory repository; a non-nil error field
// short-circuits the matching method.
type fakeUsersRepo struct {
	*usersrepo.MemoryRepository

	getEmailErr error
	getIDErr    error
	createErr   error
	setErr      error
	replaceErr  error
	clearErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.MemoryRepository.Create(ctx, u)
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getEmailErr != nil {
		return nil, f.getEmailErr
	}
	return f.MemoryRepository.GetUserByEmail(ctx, email)
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if f.getIDErr != nil {
		return nil, f.getIDErr
	}
	return f.MemoryRepository.GetUserByID(ctx, id)
}

func (f *fakeUsersRepo) SetRefreshToken(ctx context.Context, userID, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryRepository.SetRefreshToken(ctx, userID, token)
}

func (f *fakeUsersRepo) ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	return f.MemoryRepository.ReplaceRefreshToken(ctx, userID, oldToken, newToken)
}

func (f *fakeUsersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.MemoryRepository.ClearRefreshToken(ctx, userID)
}

type fakeTodosRepo struct {
	*todosrepo.MemoryRepository

	listErr   error
	createErr error
	getErr    error
	deleteErr error
}

func (f *fakeTodosRepo) ListByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryRepository.ListByUser(ctx, userID)
}

func (f *fakeTodosRepo) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.MemoryRepository.Create(ctx, t)
}

func (f *fakeTodosRepo) GetByIDAndUser(ctx context.Context, id, userID string) (*models.Todo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryRepository.GetByIDAndUser(ctx, id, userID)
}

func (f *fakeTodosRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryRepository.Delete(ctx, id)
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTodosRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{MemoryRepository: usersrepo.NewMemoryRepository()},
		t: &fakeTodosRepo{MemoryRepository: todosrepo.NewMemoryRepository()},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todosrepo.Repository      { return m.t }

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("access-secret", 15*time.Minute, "refresh-secret", 24*time.Hour)
}

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	return NewUserService(nil, rm, newTokens())
}

func newTodoService(t *testing.T, rm *fakeRepoManager) *TodoService {
	t.Helper()
	return NewTodoService(nil, rm)
}

// seedUser registers a user through the service and returns its public view.
func seedUser(t *testing.T, s *UserService, name, email, password string) *models.UserInfo {
	t.Helper()
	u, err := s.Register(context.Background(), name, email, password)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return u
}
