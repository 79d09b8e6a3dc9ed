// Package videos holds the read-side composition around the videos and
// watch_history tables.
package videos

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Watch records that userID watched videoID. The video must exist and be
// published.
func (s *Service) Watch(ctx context.Context, userID string, videoID string) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading video: %w", err)
	}
	if !video.IsPublished {
		return common.ErrorNotFound
	}
	return s.repo.RecordWatch(ctx, userID, videoID)
}

func (s *Service) WatchHistory(ctx context.Context, userID string) ([]WatchEntry, error) {
	return s.repo.ListWatchHistory(ctx, userID)
}
