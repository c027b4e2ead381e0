package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/gin-gonic/gin"
)

// setSessionCookies stores both tokens as HttpOnly, cross-site cookies
// living as long as the tokens themselves.
func (s *HTTPServer) setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	s.setCookie(c, common.AccessTokenCookieName, accessToken, s.opts.AccessTokenMaxAge)
	s.setCookie(c, common.RefreshTokenCookieName, refreshToken, s.opts.RefreshTokenMaxAge)
}

func (s *HTTPServer) clearSessionCookies(c *gin.Context) {
	s.setCookie(c, common.AccessTokenCookieName, "", -time.Second)
	s.setCookie(c, common.RefreshTokenCookieName, "", -time.Second)
}

func (s *HTTPServer) setCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	seconds := int(maxAge / time.Second)
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, seconds, "/", "", s.opts.CookieSecure, true)
}
