package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"currency-exchanger/internal/models"
	"currency-exchanger/internal/storage/postgres"
)

// PostgresLedgerStore реализует LedgerStore поверх репозиториев и менеджера транзакций
type PostgresLedgerStore struct {
	ownerRepo   postgres.OwnerRepository
	balanceRepo postgres.BalanceRepository
	txManager   TxManager
}

func NewPostgresLedgerStore(ownerRepo postgres.OwnerRepository, balanceRepo postgres.BalanceRepository, txManager TxManager) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		ownerRepo:   ownerRepo,
		balanceRepo: balanceRepo,
		txManager:   txManager,
	}
}

func (s *PostgresLedgerStore) CreateOwner(ctx context.Context, owner models.Owner, balances models.Balances) error {
	const op = "service.CreateOwner"

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.ownerRepo.CreateTx(ctx, tx, owner); err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}
		for _, b := range balances.List() {
			if err := s.balanceRepo.UpsertTx(ctx, tx, owner.ID, b.Currency, b.Amount); err != nil {
				return fmt.Errorf("failed to create %s balance: %w", b.Currency, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresLedgerStore) GetOwner(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	return s.ownerRepo.GetByID(ctx, id)
}

func (s *PostgresLedgerStore) SaveBalances(ctx context.Context, ownerID uuid.UUID, balances models.Balances) error {
	const op = "service.SaveBalances"

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		for _, b := range balances.List() {
			if err := s.balanceRepo.UpsertTx(ctx, tx, ownerID, b.Currency, b.Amount); err != nil {
				return fmt.Errorf("failed to save %s balance: %w", b.Currency, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresLedgerStore) GetBalances(ctx context.Context, ownerID uuid.UUID) (models.Balances, error) {
	return s.balanceRepo.GetByOwner(ctx, ownerID)
}

func (s *PostgresLedgerStore) SaveExchange(ctx context.Context, operation models.ExchangeOperation, balances models.Balances) error {
	const op = "service.SaveExchange"

	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		for _, b := range balances.List() {
			if err := s.balanceRepo.UpsertTx(ctx, tx, operation.OwnerID, b.Currency, b.Amount); err != nil {
				return fmt.Errorf("failed to update %s balance: %w", b.Currency, err)
			}
		}
		if err := s.balanceRepo.CreateExchangeOperationTx(ctx, tx, operation); err != nil {
			return fmt.Errorf("failed to create exchange operation: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PostgresLedgerStore) RecentExchanges(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error) {
	return s.balanceRepo.GetRecentExchangeOperations(ctx, ownerID, limit)
}
