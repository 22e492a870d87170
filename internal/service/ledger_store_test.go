package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"currency-exchanger/internal/models"
)

func setupLedgerStore() (*PostgresLedgerStore, *MockOwnerRepository, *MockBalanceRepository, *MockTxManager) {
	ownerRepo := new(MockOwnerRepository)
	balanceRepo := new(MockBalanceRepository)
	txManager := new(MockTxManager)
	return NewPostgresLedgerStore(ownerRepo, balanceRepo, txManager), ownerRepo, balanceRepo, txManager
}

func TestPostgresLedgerStore_CreateOwner_Success(t *testing.T) {
	store, ownerRepo, balanceRepo, txManager := setupLedgerStore()
	ctx := context.Background()
	owner := models.Owner{ID: uuid.New(), FirstName: "Juan", CreatedAt: time.Now()}

	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	ownerRepo.On("CreateTx", ctx, mock.Anything, owner).Return(nil)
	balanceRepo.On("UpsertTx", ctx, mock.Anything, owner.ID, models.Currency("EUR"), 1000.0).Return(nil)
	balanceRepo.On("UpsertTx", ctx, mock.Anything, owner.ID, models.Currency("USD"), 0.0).Return(nil)

	err := store.CreateOwner(ctx, owner, models.Balances{"EUR": 1000, "USD": 0})

	require.NoError(t, err)
	ownerRepo.AssertExpectations(t)
	balanceRepo.AssertExpectations(t)
}

func TestPostgresLedgerStore_CreateOwner_OwnerFails(t *testing.T) {
	store, ownerRepo, balanceRepo, txManager := setupLedgerStore()
	ctx := context.Background()
	owner := models.Owner{ID: uuid.New()}
	dbErr := errors.New("owner already exists")

	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	ownerRepo.On("CreateTx", ctx, mock.Anything, owner).Return(dbErr)

	err := store.CreateOwner(ctx, owner, models.Balances{"EUR": 1000})

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "service.CreateOwner")
	balanceRepo.AssertNotCalled(t, "UpsertTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostgresLedgerStore_SaveBalances_TxFails(t *testing.T) {
	store, _, balanceRepo, txManager := setupLedgerStore()
	ctx := context.Background()
	txErr := errors.New("begin failed")

	txManager.On("WithTx", ctx, mock.Anything).Return(txErr)

	err := store.SaveBalances(ctx, uuid.New(), models.Balances{"EUR": 1})

	assert.ErrorIs(t, err, txErr)
	balanceRepo.AssertNotCalled(t, "UpsertTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostgresLedgerStore_SaveExchange_Success(t *testing.T) {
	store, _, balanceRepo, txManager := setupLedgerStore()
	ctx := context.Background()
	operation := models.ExchangeOperation{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		FromCurrency:    "EUR",
		ToCurrency:      "USD",
		Amount:          100,
		ExchangedAmount: 110,
	}

	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	balanceRepo.On("UpsertTx", ctx, mock.Anything, operation.OwnerID, models.Currency("EUR"), 900.0).Return(nil)
	balanceRepo.On("UpsertTx", ctx, mock.Anything, operation.OwnerID, models.Currency("USD"), 110.0).Return(nil)
	balanceRepo.On("CreateExchangeOperationTx", ctx, mock.Anything, operation).Return(nil)

	err := store.SaveExchange(ctx, operation, models.Balances{"EUR": 900, "USD": 110})

	require.NoError(t, err)
	balanceRepo.AssertExpectations(t)
}

func TestPostgresLedgerStore_SaveExchange_JournalFails(t *testing.T) {
	store, _, balanceRepo, txManager := setupLedgerStore()
	ctx := context.Background()
	operation := models.ExchangeOperation{ID: uuid.New(), OwnerID: uuid.New(), FromCurrency: "EUR", ToCurrency: "USD"}
	dbErr := errors.New("insert failed")

	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	balanceRepo.On("UpsertTx", ctx, mock.Anything, operation.OwnerID, mock.Anything, mock.Anything).Return(nil)
	balanceRepo.On("CreateExchangeOperationTx", ctx, mock.Anything, operation).Return(dbErr)

	err := store.SaveExchange(ctx, operation, models.Balances{"EUR": 900, "USD": 110})

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "service.SaveExchange")
	assert.Contains(t, err.Error(), "failed to create exchange operation")
}

func TestPostgresLedgerStore_Reads(t *testing.T) {
	store, ownerRepo, balanceRepo, _ := setupLedgerStore()
	ctx := context.Background()
	owner := &models.Owner{ID: uuid.New()}
	ops := []models.ExchangeOperation{{ID: uuid.New(), OwnerID: owner.ID}}

	ownerRepo.On("GetByID", ctx, owner.ID).Return(owner, nil)
	balanceRepo.On("GetByOwner", ctx, owner.ID).Return(models.Balances{"EUR": 1}, nil)
	balanceRepo.On("GetRecentExchangeOperations", ctx, owner.ID, 5).Return(ops, nil)

	gotOwner, err := store.GetOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner, gotOwner)

	balances, err := store.GetBalances(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Balances{"EUR": 1}, balances)

	gotOps, err := store.RecentExchanges(ctx, owner.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, ops, gotOps)
}
