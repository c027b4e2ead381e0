// Package users declares the server-side repository contract for user
// accounts and the refresh token stored with each of them.
package users

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Repository defines the user queries the services need.
type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A duplicate email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail and GetUserByID return common.ErrorNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// SetRefreshToken overwrites the stored refresh token unconditionally.
	SetRefreshToken(ctx context.Context, userID, token string) error

	// ReplaceRefreshToken stores newToken only if oldToken is still the
	// stored value; otherwise it returns common.ErrorNotFound.
	ReplaceRefreshToken(ctx context.Context, userID, oldToken, newToken string) error

	// ClearRefreshToken sets the stored token to NULL.
	ClearRefreshToken(ctx context.Context, userID string) error
}
