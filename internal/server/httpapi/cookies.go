package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/sessions"
)

// setTokenCookies mirrors the token pair into HttpOnly+Secure cookies.
// The same strings are also returned in the response body, so clients can
// pick either transport.
func (s *Server) setTokenCookies(c *gin.Context, pair *sessions.TokenPair) {
	c.SetCookie(common.AccessTokenCookieName, pair.AccessToken, int(s.accessTTL.Seconds()), "/", "", true, true)
	c.SetCookie(common.RefreshTokenCookieName, pair.RefreshToken, int(s.refreshTTL.Seconds()), "/", "", true, true)
}

func (s *Server) clearTokenCookies(c *gin.Context) {
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", true, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", true, true)
}
