package videos

import "time"

// Video mirrors the videos table. File and thumbnail URLs point at object
// storage.
type Video struct {
	ID           string
	OwnerID      string
	VideoFileURL string
	ThumbnailURL string
	Title        string
	Description  string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
}

// Owner is the subset of the uploader's profile shown alongside a video.
type Owner struct {
	ID        string
	Username  string
	FullName  string
	AvatarURL string
}

// WatchEntry is one row of a user's watch history: the video, its owner,
// and when the user watched it. Newest first.
type WatchEntry struct {
	Video     Video
	Owner     Owner
	WatchedAt time.Time
}
