package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table. Password holds the bcrypt hash and
// RefreshToken the only refresh token currently accepted for the user.
type User struct {
	ID           string
	Name         string
	Email        string
	Password     string
	RefreshToken sql.NullString
	CreatedAt    time.Time
}

// Info returns the fields of u that may be shown to a client.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserInfo is the public view of a user. It is also the authenticated
// identity attached to a request.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
