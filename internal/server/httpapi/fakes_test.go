package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/config"
	"github.com/dmitrijs2005/vidstream/internal/server/sessions"
	"github.com/dmitrijs2005/vidstream/internal/server/users"
	"github.com/dmitrijs2005/vidstream/internal/server/videos"
)

func testServerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenSecret = "test-access-secret"
	cfg.RefreshTokenSecret = "test-refresh-secret"
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 2 * time.Hour
	return cfg
}

// --- fake user repository (credential gate backend) ---

type fakeUserRepo struct {
	byID map[string]*users.User
}

func newFakeUserRepo(us ...*users.User) *fakeUserRepo {
	m := make(map[string]*users.User)
	for _, u := range us {
		m[u.ID] = u
	}
	return &fakeUserRepo{byID: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*users.User, error) {
	for _, u := range f.byID {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, id string, token *string) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	return nil
}

func (f *fakeUserRepo) UpdateAccount(ctx context.Context, id string, fullName, email string) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.FullName = fullName
	u.Email = email
	return u, nil
}

func (f *fakeUserRepo) UpdateAvatarURL(ctx context.Context, id string, url string) (*users.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) UpdateCoverURL(ctx context.Context, id string, url string) (*users.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) GetChannelProfile(ctx context.Context, username string, viewerID string) (*users.ChannelProfile, error) {
	return nil, common.ErrorNotFound
}

// --- fake session service ---

type fakeSessionService struct {
	loginUser *users.User
	loginPair *sessions.TokenPair
	loginErr  error

	refreshPair *sessions.TokenPair
	refreshErr  error

	logoutErr error

	changePasswordErr error

	logoutCalls int
}

func (f *fakeSessionService) Login(ctx context.Context, identifier string, password string) (*users.User, *sessions.TokenPair, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.loginUser, f.loginPair, nil
}

func (f *fakeSessionService) Refresh(ctx context.Context, presented string) (*sessions.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshPair, nil
}

func (f *fakeSessionService) Logout(ctx context.Context, userID string) error {
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeSessionService) ChangePassword(ctx context.Context, userID string, oldPassword, newPassword string) error {
	return f.changePasswordErr
}

// --- fake user service ---

type fakeUserService struct {
	registerOut *users.User
	registerErr error
}

func (f *fakeUserService) Register(ctx context.Context, in users.RegisterInput) (*users.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeUserService) GetByID(ctx context.Context, id string) (*users.User, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeUserService) UpdateAccount(ctx context.Context, id string, fullName, email string) (*users.User, error) {
	return &users.User{ID: id, FullName: fullName, Email: email}, nil
}

func (f *fakeUserService) UpdateAvatar(ctx context.Context, id string, localPath string) (*users.User, error) {
	return &users.User{ID: id, AvatarURL: "http://s3/avatar.png"}, nil
}

func (f *fakeUserService) UpdateCover(ctx context.Context, id string, localPath string) (*users.User, error) {
	return &users.User{ID: id, CoverURL: "http://s3/cover.png"}, nil
}

func (f *fakeUserService) GetChannelProfile(ctx context.Context, username string, viewerID string) (*users.ChannelProfile, error) {
	return nil, common.ErrorNotFound
}

// --- fake video service ---

type fakeVideoService struct {
	entries  []videos.WatchEntry
	watchErr error
	listErr  error
}

func (f *fakeVideoService) Watch(ctx context.Context, userID string, videoID string) error {
	return f.watchErr
}

func (f *fakeVideoService) WatchHistory(ctx context.Context, userID string) ([]videos.WatchEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}
