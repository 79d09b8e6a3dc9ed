package videos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vidstream/internal/common"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo, _ := NewPostgresRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestRecordWatch_UpsertAndViewsInOneTx(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo, _ := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO watch_history`)).
		WithArgs("user-1", "vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET views = views + 1`)).
		WithArgs("vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.RecordWatch(context.Background(), "user-1", "vid-1"); err != nil {
		t.Fatalf("RecordWatch error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordWatch_RollsBackOnFailure(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo, _ := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO watch_history`)).
		WithArgs("user-1", "vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE videos SET views = views + 1`)).
		WithArgs("vid-1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := repo.RecordWatch(context.Background(), "user-1", "vid-1"); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListWatchHistory(t *testing.T) {
	db, mock := newSQLMockDB(t)
	repo, _ := NewPostgresRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "video_file_url", "thumbnail_url", "title", "description",
		"duration", "views", "is_published", "created_at",
		"u_id", "username", "fullname", "avatar_url", "watched_at"}).
		AddRow("vid-2", "owner-1", "http://s3/v2.mp4", "http://s3/t2.png", "Second", "",
			12.5, int64(100), true, now, "owner-1", "bob", "Bob", "", now).
		AddRow("vid-1", "owner-1", "http://s3/v1.mp4", "http://s3/t1.png", "First", "",
			30.0, int64(7), true, now, "owner-1", "bob", "Bob", "", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM watch_history w`)).
		WithArgs("user-1").
		WillReturnRows(rows)

	entries, err := repo.ListWatchHistory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListWatchHistory error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Video.ID != "vid-2" || entries[0].Owner.Username != "bob" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if !entries[0].WatchedAt.After(entries[1].WatchedAt) {
		t.Fatalf("entries must be newest first")
	}
}
