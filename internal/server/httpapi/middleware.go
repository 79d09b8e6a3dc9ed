package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
)

const currentUserKey = "currentUser"

// AuthRequired is the request-time credential gate. It verifies the access
// token from the cookie or Authorization header, resolves it to a user,
// and attaches the sanitized user to the request context.
//
// Every failure mode (missing, expired, malformed, wrong kind, unknown
// user) produces the same 401 body, so callers cannot probe the token
// format through response differences.
func AuthRequired(accessSecret []byte, repo users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {

		token := accessTokenFromRequest(c)
		if token == "" {
			unauthorized(c)
			return
		}

		userID, err := auth.Verify(token, auth.KindAccess, accessSecret)
		if err != nil {
			unauthorized(c)
			return
		}

		user, err := repo.GetByID(c.Request.Context(), userID)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(currentUserKey, user.Sanitized())
		c.Next()
	}
}

func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(common.AccessTokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Message: "unauthorized"})
}

// CurrentUser returns the authenticated user set by AuthRequired.
func CurrentUser(c *gin.Context) (*users.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*users.User)
	return user, ok
}
