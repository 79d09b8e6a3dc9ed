package videos

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (*Video, error)
	// RecordWatch upserts a watch-history row for (userID, videoID),
	// refreshing watched_at on rewatch.
	RecordWatch(ctx context.Context, userID string, videoID string) error
	// ListWatchHistory returns the user's watch history joined with video
	// and owner data, most recent first.
	ListWatchHistory(ctx context.Context, userID string) ([]WatchEntry, error)
}
