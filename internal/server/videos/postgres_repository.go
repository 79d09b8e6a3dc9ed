package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Video, error) {

	query :=
		`SELECT id, owner_id, video_file_url, thumbnail_url, title, description, duration, views, is_published, created_at
		 FROM videos
		 WHERE id = $1`

	v := &Video{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.OwnerID,
		&v.VideoFileURL, &v.ThumbnailURL, &v.Title, &v.Description,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return v, nil
}

// RecordWatch upserts the watch-history row and bumps the video's view
// counter in one transaction, so history and views cannot drift apart.
func (r *PostgresRepository) RecordWatch(ctx context.Context, userID string, videoID string) error {

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		query :=
			`INSERT INTO watch_history (user_id, video_id, watched_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()`

		if _, err := tx.ExecContext(ctx, query, userID, videoID); err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID); err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}

		return nil
	})
}

func (r *PostgresRepository) ListWatchHistory(ctx context.Context, userID string) ([]WatchEntry, error) {

	query :=
		`SELECT v.id, v.owner_id, v.video_file_url, v.thumbnail_url, v.title, v.description,
		        v.duration, v.views, v.is_published, v.created_at,
		        u.id, u.username, u.fullname, u.avatar_url,
		        w.watched_at
		 FROM watch_history w
		 JOIN videos v ON v.id = w.video_id
		 JOIN users u ON u.id = v.owner_id
		 WHERE w.user_id = $1
		 ORDER BY w.watched_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var entries []WatchEntry
	for rows.Next() {
		var e WatchEntry
		if err := rows.Scan(&e.Video.ID, &e.Video.OwnerID, &e.Video.VideoFileURL,
			&e.Video.ThumbnailURL, &e.Video.Title, &e.Video.Description,
			&e.Video.Duration, &e.Video.Views, &e.Video.IsPublished, &e.Video.CreatedAt,
			&e.Owner.ID, &e.Owner.Username, &e.Owner.FullName, &e.Owner.AvatarURL,
			&e.WatchedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
