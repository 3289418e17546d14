package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/storage"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewWithDB(db)
	s.now = func() time.Time { return fixedNow }

	return s, mock
}

func TestStorage_Get(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(stmtGetToken).
		WithArgs("key-1", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"access_token"}).AddRow("jwt-abc"))

	token, err := s.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetMissing(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(stmtGetToken).
		WithArgs("gone", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"access_token"}))

	_, err := s.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetDBError(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(stmtGetToken).
		WithArgs("key-1", fixedNow).
		WillReturnError(errors.New("connection refused"))

	_, err := s.Get(context.Background(), "key-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrTokenNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStorage_PutUpserts(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(stmtPutToken).
		WithArgs("key-1", "jwt-abc", fixedNow.Add(7*24*time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Put(context.Background(), "key-1", "jwt-abc", 7*24*time.Hour)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Delete(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(stmtDeleteToken).
		WithArgs("key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), "key-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_PurgeExpired(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(stmtPurgeTokens).
		WithArgs(fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Migrate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectExec(stmtCreateTokens).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
