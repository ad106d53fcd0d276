package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitrije/socketkey-api/internal/database"
	"github.com/dimitrije/socketkey-api/internal/models"
)

func setupPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewPostgresStore(db), mock
}

func TestPostgresStore_Set(t *testing.T) {
	s, mock := setupPostgresStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(5 * time.Second)

	mock.ExpectExec(`INSERT INTO api_keys`).
		WithArgs("abc123", "user-42", expiresAt, float64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Set(ctx, "abc123", models.APIKeyRecord{UserID: "user-42", ExpiresAt: expiresAt}, 5*time.Second)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set_RejectsNonPositiveTTL(t *testing.T) {
	s, mock := setupPostgresStore(t)

	err := s.Set(context.Background(), "k", models.APIKeyRecord{UserID: "u"}, -time.Second)

	assert.ErrorIs(t, err, ErrInvalidTTL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := setupPostgresStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	rows := pgxmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", expiresAt)
	mock.ExpectQuery(`SELECT user_id, expires_at FROM api_keys`).
		WithArgs("k1").
		WillReturnRows(rows)

	rec, err := s.Get(ctx, "k1")

	require.NoError(t, err)
	assert.Equal(t, "k1", rec.Key)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, expiresAt, rec.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := setupPostgresStore(t)

	mock.ExpectQuery(`SELECT user_id, expires_at FROM api_keys`).
		WithArgs("gone").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Get(context.Background(), "gone")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_DatabaseError(t *testing.T) {
	s, mock := setupPostgresStore(t)
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(`SELECT user_id, expires_at FROM api_keys`).
		WithArgs("k").
		WillReturnError(dbErr)

	_, err := s.Get(context.Background(), "k")

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Exists(t *testing.T) {
	s, mock := setupPostgresStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("live").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("gone").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.Exists(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CleanupExpired(t *testing.T) {
	s, mock := setupPostgresStore(t)

	mock.ExpectExec(`DELETE FROM api_keys WHERE ttl_expires_at <= NOW`).
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	removed, err := s.CleanupExpired(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(5), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
