package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/storage"
)

func TestPgOwnerRepository_CreateTx_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOwnerRepository(mock)
	ctx := context.Background()
	owner := models.Owner{
		ID:        uuid.New(),
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(storage.CreateOwnerQuery)).
		WithArgs(owner.ID, owner.FirstName, owner.LastName, owner.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.CreateTx(ctx, tx, owner)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgOwnerRepository_CreateTx_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOwnerRepository(mock)
	ctx := context.Background()
	owner := models.Owner{ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(storage.CreateOwnerQuery)).
		WithArgs(owner.ID, owner.FirstName, owner.LastName, owner.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.CreateTx(ctx, tx, owner)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgOwnerRepository_GetByID_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOwnerRepository(mock)
	id := uuid.New()
	createdAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerByIDQuery)).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name", "created_at"}).
			AddRow(id, "Juan", "Dela Cruz", createdAt))

	owner, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, owner.ID)
	assert.Equal(t, "Juan", owner.FirstName)
	assert.Equal(t, "Dela Cruz", owner.LastName)
	assert.Equal(t, createdAt, owner.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgOwnerRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOwnerRepository(mock)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerByIDQuery)).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	owner, err := repo.GetByID(context.Background(), id)

	assert.Nil(t, owner)
	assert.ErrorIs(t, err, custom_err.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgOwnerRepository_GetByID_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOwnerRepository(mock)
	id := uuid.New()
	dbErr := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerByIDQuery)).
		WithArgs(id).
		WillReturnError(dbErr)

	_, err = repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, custom_err.ErrNotFound)
}
