package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/server/auth"
)

// MediaStore uploads a local file to object storage and returns its public
// URL.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Service implements registration and profile management. Session
// operations (login/refresh/logout) live in the sessions package.
type Service struct {
	repo  Repository
	media MediaStore
}

func NewService(repo Repository, media MediaStore) *Service {
	return &Service{repo: repo, media: media}
}

// RegisterInput is the validated registration payload. AvatarPath and
// CoverPath point at temp files already written by the transport layer.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	AvatarPath string
	CoverPath  string
}

func (in *RegisterInput) validate() error {
	for _, field := range []string{in.Username, in.Email, in.FullName, in.Password} {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: all fields are required", common.ErrorValidation)
		}
	}
	if in.AvatarPath == "" {
		return fmt.Errorf("%w: avatar is required", common.ErrorValidation)
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {

	if err := in.validate(); err != nil {
		return nil, err
	}

	avatarURL, err := s.media.Upload(ctx, in.AvatarPath)
	if err != nil {
		return nil, fmt.Errorf("error uploading avatar: %w", err)
	}

	var coverURL string
	if in.CoverPath != "" {
		coverURL, err = s.media.Upload(ctx, in.CoverPath)
		if err != nil {
			return nil, fmt.Errorf("error uploading cover image: %w", err)
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		AvatarURL:    avatarURL,
		CoverURL:     coverURL,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created.Sanitized(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *Service) UpdateAccount(ctx context.Context, id string, fullName, email string) (*User, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: fullname and email are required", common.ErrorValidation)
	}
	user, err := s.repo.UpdateAccount(ctx, id, strings.TrimSpace(fullName), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *Service) UpdateAvatar(ctx context.Context, id string, localPath string) (*User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: avatar file is required", common.ErrorValidation)
	}
	url, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("error uploading avatar: %w", err)
	}
	user, err := s.repo.UpdateAvatarURL(ctx, id, url)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *Service) UpdateCover(ctx context.Context, id string, localPath string) (*User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%w: cover image file is required", common.ErrorValidation)
	}
	url, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("error uploading cover image: %w", err)
	}
	user, err := s.repo.UpdateCoverURL(ctx, id, url)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *Service) GetChannelProfile(ctx context.Context, username string, viewerID string) (*ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	return s.repo.GetChannelProfile(ctx, username, viewerID)
}
