package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"subdaap-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupSQLite(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := NewGormStore(db)
	require.NoError(t, s.Migrate())
	return s
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestGormStore_RoundTrip(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	v, err := s.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Versions{}, v)

	require.NoError(t, s.Save(ctx, 1, Versions{Items: 10, Containers: 20}))
	require.NoError(t, s.Save(ctx, 2, Versions{Items: 1, Containers: 2}))
	require.NoError(t, s.Save(ctx, 1, Versions{Items: 11, Containers: 21}))

	v, err = s.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Versions{Items: 11, Containers: 21}, v)

	v, err = s.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Versions{Items: 1, Containers: 2}, v)

	require.NoError(t, s.Reset(ctx, 1))
	v, err = s.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Versions{}, v)
}

func TestGormStore_MySQLQueries(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGormStore(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"remote_index", "items_version", "containers_version", "updated_at"}).
		AddRow(3, 100, 200, time.Now())
	mock.ExpectQuery("SELECT \\* FROM `sync_states` WHERE remote_index = \\?").WillReturnRows(rows)

	v, err := s.Load(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, Versions{Items: 100, Containers: 200}, v)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sync_states`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, s.Save(ctx, 3, Versions{Items: 1, Containers: 2}))

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `sync_states` WHERE remote_index = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, s.Reset(ctx, 3))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_LoadError(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery("SELECT \\* FROM `sync_states`").WillReturnError(errors.New("connection lost"))

	_, err := s.Load(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load state 1")
}
