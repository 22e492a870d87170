package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"currency-exchanger/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context) (*models.FetchedRates, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FetchedRates), args.Error(1)
}

type MockRateSnapshotStore struct {
	mock.Mock
}

func (m *MockRateSnapshotStore) Save(ctx context.Context, rates models.CachedRates) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *MockRateSnapshotStore) Load(ctx context.Context) (models.CachedRates, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.CachedRates), args.Error(1)
}

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) CreateOwner(ctx context.Context, owner models.Owner, balances models.Balances) error {
	args := m.Called(ctx, owner, balances)
	return args.Error(0)
}

func (m *MockLedgerStore) GetOwner(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

func (m *MockLedgerStore) SaveBalances(ctx context.Context, ownerID uuid.UUID, balances models.Balances) error {
	args := m.Called(ctx, ownerID, balances)
	return args.Error(0)
}

func (m *MockLedgerStore) GetBalances(ctx context.Context, ownerID uuid.UUID) (models.Balances, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Balances), args.Error(1)
}

func (m *MockLedgerStore) SaveExchange(ctx context.Context, op models.ExchangeOperation, balances models.Balances) error {
	args := m.Called(ctx, op, balances)
	return args.Error(0)
}

func (m *MockLedgerStore) RecentExchanges(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeOperation), args.Error(1)
}

type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) CreateTx(ctx context.Context, tx pgx.Tx, owner models.Owner) error {
	args := m.Called(ctx, tx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Owner), args.Error(1)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) UpsertTx(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency models.Currency, amount float64) error {
	args := m.Called(ctx, tx, ownerID, currency, amount)
	return args.Error(0)
}

func (m *MockBalanceRepository) CreateExchangeOperationTx(ctx context.Context, tx pgx.Tx, op models.ExchangeOperation) error {
	args := m.Called(ctx, tx, op)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (models.Balances, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Balances), args.Error(1)
}

func (m *MockBalanceRepository) GetRecentExchangeOperations(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeOperation), args.Error(1)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendLargeExchangeEvent(ctx context.Context, event models.LargeExchangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
