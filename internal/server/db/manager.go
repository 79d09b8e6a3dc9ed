// Package db wires the database connection, migrations, and repositories
// behind a single manager with explicit init and teardown.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vidstream/internal/server/users"
	"github.com/dmitrijs2005/vidstream/internal/server/videos"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	Videos() videos.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
