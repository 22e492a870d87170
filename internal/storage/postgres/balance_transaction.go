package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/storage"
)

func (r *PgBalanceRepository) UpsertTx(ctx context.Context, tx pgx.Tx, ownerID uuid.UUID, currency models.Currency, amount float64) error {
	const op = "storage.UpsertBalanceTx"

	_, err := tx.Exec(ctx, storage.UpsertBalanceQuery, ownerID, string(currency), amount)
	if err != nil {
		// balances_amount_check: amount >= 0
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return fmt.Errorf("%s: %w", op, custom_err.ErrInsufficientFunds)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgBalanceRepository) CreateExchangeOperationTx(ctx context.Context, tx pgx.Tx, o models.ExchangeOperation) error {
	const op = "storage.CreateExchangeOperationTx"

	var rate float64
	if o.Amount != 0 {
		rate = o.ExchangedAmount / o.Amount
	}

	_, err := tx.Exec(ctx, storage.CreateExchangeOperationQuery,
		o.ID,
		o.OwnerID,
		string(o.FromCurrency),
		string(o.ToCurrency),
		o.Amount,
		o.ExchangedAmount,
		rate,
		o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
