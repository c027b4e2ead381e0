// Package common contains shared constants and errors used across the
// todo API layers.
package common

// Cookie names under which the session pair travels between browser and
// server.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeaderName carries the access token for non-browser clients
// as "Bearer <token>".
const (
	AuthorizationHeaderName = "Authorization"
	BearerPrefix            = "Bearer "
)

// RequestIDHeaderName is echoed back on every response.
const RequestIDHeaderName = "X-Request-ID"
