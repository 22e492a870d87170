package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"currency-exchanger/internal/models"
	"currency-exchanger/internal/storage"
)

type BalanceRepository interface {
	UpsertTx(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency models.Currency, amount float64) error
	CreateExchangeOperationTx(ctx context.Context, tx pgx.Tx, op models.ExchangeOperation) error

	GetByOwner(ctx context.Context, ownerID uuid.UUID) (models.Balances, error)
	GetRecentExchangeOperations(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error)
}

type PgBalanceRepository struct {
	db DBTX
}

func NewBalanceRepository(db DBTX) BalanceRepository {
	return &PgBalanceRepository{db: db}
}

func (r *PgBalanceRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (models.Balances, error) {
	const op = "storage.GetBalancesByOwner"

	rows, err := r.db.Query(ctx, storage.GetOwnerBalancesQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	balances := make(models.Balances)
	for rows.Next() {
		var (
			currency string
			amount   float64
		)
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		balances[models.Currency(currency)] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return balances, nil
}

func (r *PgBalanceRepository) GetRecentExchangeOperations(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error) {
	const op = "storage.GetRecentExchangeOperations"

	rows, err := r.db.Query(ctx, storage.GetRecentExchangeOperationsQuery, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ops []models.ExchangeOperation
	for rows.Next() {
		var (
			o        models.ExchangeOperation
			from, to string
		)
		if err := rows.Scan(&o.ID, &o.OwnerID, &from, &to, &o.Amount, &o.ExchangedAmount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan error: %w", op, err)
		}
		o.FromCurrency = models.Currency(from)
		o.ToCurrency = models.Currency(to)
		ops = append(ops, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ops, nil
}
