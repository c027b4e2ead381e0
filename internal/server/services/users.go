package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/auth"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
)

const (
	msgAllFieldsRequired  = "All fields are required"
	msgUserAlreadyExists  = "User already exists"
	msgUserCreateFailed   = "Error while creating user"
	msgUserNotFound       = "User not found"
	msgInvalidCredentials = "Invalid credentials"
	msgLoginFailed        = "Error while logging in"
	msgLogoutFailed       = "Error while logging out"
	msgUserNotAuthed      = "User not authenticated"
	msgInvalidOrExpired   = "Invalid or Expired Token"
	msgPasswordTooLong    = "Password is too long"
)

// Session is an issued access/refresh pair together with its owner.
type Session struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         models.UserInfo `json:"user"`
}

type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, tokens *auth.TokenManager) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens}
}

// Register creates an account. Email is matched case-insensitively.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.UserInfo, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if name == "" || email == "" || password == "" {
		return nil, common.BadRequest(msgAllFieldsRequired)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.BadRequest(msgUserAlreadyExists)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, common.Internal(msgUserCreateFailed, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, common.BadRequest(msgPasswordTooLong)
		}
		return nil, common.Internal(msgUserCreateFailed, err)
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, Password: hash})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.BadRequest(msgUserAlreadyExists)
		}
		return nil, common.Internal(msgUserCreateFailed, err)
	}

	info := user.Info()
	return &info, nil
}

// Login verifies credentials and stores the new refresh token as the only
// one accepted for the user.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return nil, common.BadRequest(msgAllFieldsRequired)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound(msgUserNotFound)
		}
		return nil, common.Internal(msgLoginFailed, err)
	}

	ok, err := auth.CheckPassword(password, user.Password)
	if err != nil {
		return nil, common.Internal(msgLoginFailed, err)
	}
	if !ok {
		return nil, common.Unauthorized(msgInvalidCredentials)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, common.Internal(msgLoginFailed, err)
	}

	if err := repo.SetRefreshToken(ctx, user.ID, session.RefreshToken); err != nil {
		return nil, common.Internal(msgLoginFailed, err)
	}

	return session, nil
}

// Logout forgets the stored refresh token so no further rotation succeeds.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return common.BadRequest(msgUserNotAuthed)
	}

	err := s.repomanager.Users(s.db).ClearRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound(msgUserNotFound)
		}
		return common.Internal(msgLogoutFailed, err)
	}

	return nil
}

// VerifyAccess returns the identity carried by a valid access token.
func (s *UserService) VerifyAccess(token string) (*models.UserInfo, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &models.UserInfo{ID: claims.UserID, Name: claims.Name, Email: claims.Email}, nil
}

// RefreshSession rotates the pair for the owner of refreshToken. The token
// must equal the stored one; every failure is reported as 403.
func (s *UserService) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, common.Forbidden(msgInvalidOrExpired)
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, common.NewAPIError(http.StatusForbidden, msgInvalidOrExpired, err)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, common.NewAPIError(http.StatusForbidden, msgInvalidOrExpired, err)
	}

	if !user.RefreshToken.Valid || !s.checkToken(user.RefreshToken.String, refreshToken) {
		return nil, common.Forbidden(msgInvalidOrExpired)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, common.NewAPIError(http.StatusForbidden, msgInvalidOrExpired, err)
	}

	// only one of two concurrent rotations of the same token may win
	if err := repo.ReplaceRefreshToken(ctx, user.ID, refreshToken, session.RefreshToken); err != nil {
		return nil, common.NewAPIError(http.StatusForbidden, msgInvalidOrExpired, err)
	}

	return session, nil
}

func (s *UserService) checkToken(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func (s *UserService) issue(user *models.User) (*Session, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken, User: user.Info()}, nil
}
