package httpapi

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/filex"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
	"github.com/dmitrijs2005/vidstream/internal/server/videos"
)

// saveUpload writes the named multipart file into the temp upload dir and
// returns its path. Returns "" when the field is absent.
func (s *Server) saveUpload(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}

	dir, err := filex.EnsureSubDir(s.uploadTmpDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Server) handleRegister(c *gin.Context) {
	ctx := c.Request.Context()

	avatarPath, err := s.saveUpload(c, "avatar")
	if err != nil {
		s.logger.Error(ctx, "saving avatar upload", "error", err.Error())
		respond(c, http.StatusBadRequest, nil, "invalid avatar upload")
		return
	}
	defer func() { _ = filex.Remove(avatarPath) }()

	coverPath, err := s.saveUpload(c, "coverImage")
	if err != nil {
		s.logger.Error(ctx, "saving cover upload", "error", err.Error())
		respond(c, http.StatusBadRequest, nil, "invalid cover image upload")
		return
	}
	defer func() { _ = filex.Remove(coverPath) }()

	user, err := s.users.Register(ctx, users.RegisterInput{
		Username:   c.PostForm("username"),
		Email:      c.PostForm("email"),
		FullName:   c.PostForm("fullname"),
		Password:   c.PostForm("password"),
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	})
	if err != nil {
		if !errors.Is(err, common.ErrorValidation) && !errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Error(ctx, "registration failed", "error", err.Error())
		}
		respondError(c, err)
		return
	}

	s.logger.Info(ctx, "user registered", "username", user.Username)
	respond(c, http.StatusCreated, toUserResponse(user), "user registered")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "username or email and password are required")
		return
	}
	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		respond(c, http.StatusBadRequest, nil, "username or email is required")
		return
	}

	user, pair, err := s.sessions.Login(ctx, identifier, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrTokenIssuance) || errors.Is(err, common.ErrStoreUnavailable) {
			s.logger.Error(ctx, "login failed", "error", err.Error())
		}
		respondError(c, err)
		return
	}

	s.setTokenCookies(c, pair)
	s.logger.Info(ctx, "user logged in", "username", user.Username)
	respond(c, http.StatusOK, gin.H{
		"user":         toUserResponse(user),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "logged in")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	presented, _ := c.Cookie(common.RefreshTokenCookieName)
	if presented == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := s.sessions.Refresh(ctx, presented)
	if err != nil {
		if errors.Is(err, common.ErrTokenIssuance) || errors.Is(err, common.ErrStoreUnavailable) {
			s.logger.Error(ctx, "refresh failed", "error", err.Error())
		}
		respondError(c, err)
		return
	}

	s.setTokenCookies(c, pair)
	respond(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "tokens refreshed")
}

func (s *Server) handleLogout(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := s.sessions.Logout(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "logout failed", "error", err.Error())
		respondError(c, err)
		return
	}

	s.clearTokenCookies(c)
	respond(c, http.StatusOK, nil, "logged out")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (s *Server) handleChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "old and new passwords are required")
		return
	}

	if err := s.sessions.ChangePassword(ctx, user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, nil, "password changed")
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}
	respond(c, http.StatusOK, toUserResponse(user), "")
}

type updateAccountRequest struct {
	FullName string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (s *Server) handleUpdateAccount(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, nil, "fullname and email are required")
		return
	}

	updated, err := s.users.UpdateAccount(ctx, user.ID, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toUserResponse(updated), "account updated")
}

func (s *Server) handleUpdateAvatar(c *gin.Context) {
	s.handleUpdateImage(c, "avatar", s.users.UpdateAvatar)
}

func (s *Server) handleUpdateCover(c *gin.Context) {
	s.handleUpdateImage(c, "coverImage", s.users.UpdateCover)
}

func (s *Server) handleUpdateImage(c *gin.Context, field string, update func(ctx context.Context, id, path string) (*users.User, error)) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	path, err := s.saveUpload(c, field)
	if err != nil {
		respond(c, http.StatusBadRequest, nil, "invalid file upload")
		return
	}
	if path == "" {
		respond(c, http.StatusBadRequest, nil, field+" file is required")
		return
	}
	defer func() { _ = filex.Remove(path) }()

	updated, err := update(ctx, user.ID, path)
	if err != nil {
		s.logger.Error(ctx, "image update failed", "field", field, "error", err.Error())
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, toUserResponse(updated), field+" updated")
}

type channelProfileResponse struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	FullName          string `json:"fullname"`
	AvatarURL         string `json:"avatarUrl"`
	CoverURL          string `json:"coverUrl"`
	SubscriberCount   int64  `json:"subscriberCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

func (s *Server) handleChannelProfile(c *gin.Context) {
	ctx := c.Request.Context()

	viewer, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	profile, err := s.users.GetChannelProfile(ctx, c.Param("username"), viewer.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, channelProfileResponse{
		ID:                profile.ID,
		Username:          profile.Username,
		Email:             profile.Email,
		FullName:          profile.FullName,
		AvatarURL:         profile.AvatarURL,
		CoverURL:          profile.CoverURL,
		SubscriberCount:   profile.SubscriberCount,
		SubscribedToCount: profile.SubscribedToCount,
		IsSubscribed:      profile.IsSubscribed,
	}, "")
}

type watchEntryResponse struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoFileURL string    `json:"videoFileUrl"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	Owner        gin.H     `json:"owner"`
	WatchedAt    time.Time `json:"watchedAt"`
}

func (s *Server) handleWatchHistory(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	entries, err := s.videos.WatchHistory(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "watch history lookup failed", "error", err.Error())
		respondError(c, err)
		return
	}

	out := make([]watchEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toWatchEntryResponse(e))
	}
	respond(c, http.StatusOK, out, "")
}

func toWatchEntryResponse(e videos.WatchEntry) watchEntryResponse {
	return watchEntryResponse{
		VideoID:      e.Video.ID,
		Title:        e.Video.Title,
		Description:  e.Video.Description,
		ThumbnailURL: e.Video.ThumbnailURL,
		VideoFileURL: e.Video.VideoFileURL,
		Duration:     e.Video.Duration,
		Views:        e.Video.Views,
		Owner: gin.H{
			"id":        e.Owner.ID,
			"username":  e.Owner.Username,
			"fullname":  e.Owner.FullName,
			"avatarUrl": e.Owner.AvatarURL,
		},
		WatchedAt: e.WatchedAt,
	}
}

func (s *Server) handleWatch(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := CurrentUser(c)
	if !ok {
		unauthorized(c)
		return
	}

	if err := s.videos.Watch(ctx, user.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "watch recorded")
}
