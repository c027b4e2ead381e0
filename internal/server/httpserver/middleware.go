package httpserver

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

const (
	msgNoToken          = "Unauthorized - No Token Provided"
	msgInvalidOrExpired = "Invalid or Expired Token"
)

const identityKey = "identity"

// requestID tags the request context with the incoming X-Request-ID or a
// fresh uuid and echoes it back.
func (s *HTTPServer) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(common.RequestIDHeaderName))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, id)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// recovery turns a handler panic into the 500 envelope.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			errorEnvelope{StatusCode: http.StatusInternalServerError, Message: msgInternal})
	})
}

// authGuard admits a request with a valid access token. Otherwise it makes
// exactly one attempt to rotate the session with the refresh token; on
// success the new pair is set as cookies and the request proceeds.
func (s *HTTPServer) authGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := accessTokenFrom(c)
		if accessToken == "" {
			s.writeError(c, common.Unauthorized(msgNoToken))
			return
		}

		user, err := s.users.VerifyAccess(accessToken)
		if err == nil {
			c.Set(identityKey, user)
			c.Next()
			return
		}

		ctx := c.Request.Context()
		s.logger.Debug(ctx, "access token rejected, refreshing", "error", err)

		session, err := s.users.RefreshSession(ctx, refreshTokenFrom(c))
		if err != nil {
			s.writeError(c, common.NewAPIError(http.StatusForbidden, msgInvalidOrExpired, err))
			return
		}

		s.setSessionCookies(c, session.AccessToken, session.RefreshToken)
		c.Set(identityKey, &session.User)
		c.Next()
	}
}

// accessTokenFrom prefers the cookie over the Authorization header.
func accessTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(common.AccessTokenCookieName); err == nil && v != "" {
		return v
	}
	if v, ok := strings.CutPrefix(c.GetHeader(common.AuthorizationHeaderName), common.BearerPrefix); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// refreshTokenFrom prefers the cookie over a "refreshToken" JSON body
// field. The body stays available to handlers binding with ShouldBindBodyWith.
func refreshTokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(common.RefreshTokenCookieName); err == nil && v != "" {
		return v
	}
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return ""
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		return ""
	}
	return body.RefreshToken
}

// identity returns the user attached by authGuard, or nil.
func identity(c *gin.Context) *models.UserInfo {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.UserInfo)
	return u
}

func identityID(c *gin.Context) string {
	if u := identity(c); u != nil {
		return u.ID
	}
	return ""
}
