// Package httpapi is the HTTP transport layer. It parses and validates
// requests, shuttles them into the session/user/video services, and maps
// typed service errors onto HTTP statuses. No business rules live here.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/vidstream/internal/logging"
	"github.com/dmitrijs2005/vidstream/internal/server/config"
	"github.com/dmitrijs2005/vidstream/internal/server/sessions"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
	"github.com/dmitrijs2005/vidstream/internal/server/videos"
)

// SessionService is the session-manager surface the transport consumes.
type SessionService interface {
	Login(ctx context.Context, identifier string, password string) (*users.User, *sessions.TokenPair, error)
	Refresh(ctx context.Context, presented string) (*sessions.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, oldPassword, newPassword string) error
}

// UserService is the registration/profile surface the transport consumes.
type UserService interface {
	Register(ctx context.Context, in users.RegisterInput) (*users.User, error)
	GetByID(ctx context.Context, id string) (*users.User, error)
	UpdateAccount(ctx context.Context, id string, fullName, email string) (*users.User, error)
	UpdateAvatar(ctx context.Context, id string, localPath string) (*users.User, error)
	UpdateCover(ctx context.Context, id string, localPath string) (*users.User, error)
	GetChannelProfile(ctx context.Context, username string, viewerID string) (*users.ChannelProfile, error)
}

// VideoService is the watch-history surface the transport consumes.
type VideoService interface {
	Watch(ctx context.Context, userID string, videoID string) error
	WatchHistory(ctx context.Context, userID string) ([]videos.WatchEntry, error)
}

type Server struct {
	address      string
	logger       logging.Logger
	sessions     SessionService
	users        UserService
	videos       VideoService
	userRepo     users.Repository
	accessSecret []byte
	refreshTTL   time.Duration
	accessTTL    time.Duration
	uploadTmpDir string
	engine       *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, ss SessionService, us UserService, vs VideoService, userRepo users.Repository) *Server {
	s := &Server{
		address:      cfg.EndpointAddr,
		logger:       l.With("module", "http_server"),
		sessions:     ss,
		users:        us,
		videos:       vs,
		userRepo:     userRepo,
		accessSecret: []byte(cfg.AccessTokenSecret),
		accessTTL:    cfg.AccessTokenValidityDuration,
		refreshTTL:   cfg.RefreshTokenValidityDuration,
		uploadTmpDir: cfg.UploadTmpDir,
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	authed := AuthRequired(s.accessSecret, s.userRepo)

	u := api.Group("/users")
	u.POST("/register", s.handleRegister)
	u.POST("/login", s.handleLogin)
	u.POST("/refresh-token", s.handleRefresh)
	u.POST("/logout", authed, s.handleLogout)
	u.POST("/change-password", authed, s.handleChangePassword)
	u.GET("/current", authed, s.handleCurrentUser)
	u.PATCH("/update-account", authed, s.handleUpdateAccount)
	u.PATCH("/avatar", authed, s.handleUpdateAvatar)
	u.PATCH("/cover-image", authed, s.handleUpdateCover)
	u.GET("/c/:username", authed, s.handleChannelProfile)
	u.GET("/watch-history", authed, s.handleWatchHistory)

	v := api.Group("/videos")
	v.POST("/:id/watch", authed, s.handleWatch)

	return engine
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
