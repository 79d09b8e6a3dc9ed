package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: status < http.StatusBadRequest, Data: data, Message: message})
}

// respondError maps typed service errors onto HTTP statuses. Unknown
// errors become a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respond(c, http.StatusBadRequest, nil, err.Error())
	case errors.Is(err, common.ErrUserNotFound), errors.Is(err, common.ErrorNotFound):
		respond(c, http.StatusNotFound, nil, "not found")
	case errors.Is(err, common.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, nil, "invalid credentials")
	case errors.Is(err, common.ErrInvalidRefreshToken):
		respond(c, http.StatusUnauthorized, nil, "invalid refresh token")
	case errors.Is(err, common.ErrRefreshTokenStale):
		respond(c, http.StatusUnauthorized, nil, "refresh token stale")
	case errors.Is(err, common.ErrorUnauthorized):
		respond(c, http.StatusUnauthorized, nil, "unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		respond(c, http.StatusConflict, nil, "already exists")
	case errors.Is(err, common.ErrStoreUnavailable):
		respond(c, http.StatusServiceUnavailable, nil, "service unavailable")
	default:
		respond(c, http.StatusInternalServerError, nil, "internal error")
	}
}

// userResponse is the outward user shape: never includes the password hash
// or the stored refresh token.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullname"`
	AvatarURL string    `json:"avatarUrl"`
	CoverURL  string    `json:"coverUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
	}
}
