package sessionkeys

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dpetukhov/srpvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO session_keys`).
		WithArgs("u1", "key", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), "u1", "key", time.Minute)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Take(t *testing.T) {
	repo, mock := newMockRepo(t)

	expires := time.Now().Add(time.Minute)
	mock.ExpectQuery(`DELETE FROM session_keys`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "key", "expires_at"}).
			AddRow("u1", "key", expires))

	sk, err := repo.Take(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "key", sk.Key)
	assert.Equal(t, expires, sk.Expires)
}

func TestPostgresRepository_TakeMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`DELETE FROM session_keys`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "key", "expires_at"}))

	_, err := repo.Take(context.Background(), "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM session_keys`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "u1")
	assert.NoError(t, err)
}
