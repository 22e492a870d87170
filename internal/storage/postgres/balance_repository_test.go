package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/storage"
)

func TestPgBalanceRepository_UpsertTx_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ctx := context.Background()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(storage.UpsertBalanceQuery)).
		WithArgs(ownerID, "EUR", 900.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.UpsertTx(ctx, tx, ownerID, "EUR", 900)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgBalanceRepository_UpsertTx_NegativeRejectedByCheck(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ctx := context.Background()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(storage.UpsertBalanceQuery)).
		WithArgs(ownerID, "EUR", -1.0).
		WillReturnError(&pgconn.PgError{Code: "23514"})

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.UpsertTx(ctx, tx, ownerID, "EUR", -1)

	assert.ErrorIs(t, err, custom_err.ErrInsufficientFunds)
}

func TestPgBalanceRepository_CreateExchangeOperationTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ctx := context.Background()
	op := models.ExchangeOperation{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		FromCurrency:    "EUR",
		ToCurrency:      "USD",
		Amount:          100,
		ExchangedAmount: 110,
		CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(storage.CreateExchangeOperationQuery)).
		WithArgs(op.ID, op.OwnerID, "EUR", "USD", 100.0, 110.0, 1.1, op.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	err = repo.CreateExchangeOperationTx(ctx, tx, op)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgBalanceRepository_GetByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerBalancesQuery)).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"currency", "amount"}).
			AddRow("EUR", 900.0).
			AddRow("PHP", 0.0).
			AddRow("USD", 110.0))

	balances, err := repo.GetByOwner(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Equal(t, models.Balances{"EUR": 900, "PHP": 0, "USD": 110}, balances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgBalanceRepository_GetByOwner_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ownerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerBalancesQuery)).
		WithArgs(ownerID).
		WillReturnRows(pgxmock.NewRows([]string{"currency", "amount"}))

	balances, err := repo.GetByOwner(context.Background(), ownerID)

	require.NoError(t, err)
	assert.NotNil(t, balances)
	assert.Empty(t, balances)
}

func TestPgBalanceRepository_GetByOwner_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ownerID := uuid.New()
	dbErr := errors.New("relation \"balances\" does not exist")

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetOwnerBalancesQuery)).
		WithArgs(ownerID).
		WillReturnError(dbErr)

	_, err = repo.GetByOwner(context.Background(), ownerID)

	assert.ErrorIs(t, err, dbErr)
}

func TestPgBalanceRepository_GetRecentExchangeOperations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepository(mock)
	ownerID := uuid.New()
	opID := uuid.New()
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(storage.GetRecentExchangeOperationsQuery)).
		WithArgs(ownerID, 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "owner_id", "from_currency", "to_currency", "amount", "exchanged_amount", "created_at",
		}).AddRow(opID, ownerID, "EUR", "USD", 100.0, 110.0, createdAt))

	ops, err := repo.GetRecentExchangeOperations(context.Background(), ownerID, 10)

	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, opID, ops[0].ID)
	assert.Equal(t, models.Currency("EUR"), ops[0].FromCurrency)
	assert.Equal(t, models.Currency("USD"), ops[0].ToCurrency)
	assert.Equal(t, 110.0, ops[0].ExchangedAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
