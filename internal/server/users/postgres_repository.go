package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidstream/internal/common"
	"github.com/dmitrijs2005/vidstream/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const userColumns = `id, username, email, fullname, password_hash, avatar_url, cover_url, refresh_token, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var refreshToken sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.PasswordHash, &user.AvatarURL, &user.CoverURL, &refreshToken,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (username, email, fullname, password_hash, avatar_url, cover_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		strings.ToLower(user.Username), strings.ToLower(user.Email),
		user.FullName, user.PasswordHash, user.AvatarURL, user.CoverURL)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(identifier)))
}

// UpdateRefreshToken is the atomicity point of the session lifecycle: one
// UPDATE of one column, so concurrent rotations resolve to a single stored
// winner. nil clears the column to NULL.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token *string) error {

	query := `UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`

	var value sql.NullString
	if token != nil {
		value = sql.NullString{String: *token, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {

	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdateAccount(ctx context.Context, id string, fullName, email string) (*User, error) {

	query :=
		`UPDATE users SET fullname = $2, email = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, id, fullName, strings.ToLower(email)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) UpdateAvatarURL(ctx context.Context, id string, url string) (*User, error) {
	query :=
		`UPDATE users SET avatar_url = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, url))
}

func (r *PostgresRepository) UpdateCoverURL(ctx context.Context, id string, url string) (*User, error) {
	query :=
		`UPDATE users SET cover_url = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, id, url))
}

func (r *PostgresRepository) GetChannelProfile(ctx context.Context, username string, viewerID string) (*ChannelProfile, error) {

	query :=
		`SELECT u.id, u.username, u.email, u.fullname, u.avatar_url, u.cover_url,
		        (SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
		        (SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
		        EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2) AS is_subscribed
		 FROM users u
		 WHERE u.username = $1`

	p := &ChannelProfile{}
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(username), viewerID).Scan(
		&p.ID, &p.Username, &p.Email, &p.FullName, &p.AvatarURL, &p.CoverURL,
		&p.SubscriberCount, &p.SubscribedToCount, &p.IsSubscribed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return p, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
