// Package media uploads user-supplied files (avatars, cover images) to an
// S3-compatible object store and hands back public URLs.
package media

import "context"

// Store is the media-store boundary consumed by the user service. Upload
// reads the file at localPath and returns the URL it is reachable under.
type Store interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
