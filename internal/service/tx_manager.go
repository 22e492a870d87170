package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// TxManager выполняет fn в одной транзакции: запись обмена, создание владельца
// и перезапись балансов проходят через него целиком или не проходят вовсе.
type TxManager interface {
	WithTx(ctx context.Context, fn func(pgx.Tx) error) error
}

type PgxPoolIface interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// ledgerTxOptions строки балансов обновляет только один писатель книги,
// поэтому read committed достаточно, а upsert по (owner_id, currency) не конфликтует
var ledgerTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.ReadCommitted,
	AccessMode: pgx.ReadWrite,
}

type PgxTxManager struct {
	pool PgxPoolIface
	opts pgx.TxOptions
	log  *slog.Logger
}

func NewPgxTxManager(pool PgxPoolIface, log *slog.Logger) *PgxTxManager {
	if log == nil {
		log = slog.Default()
	}
	return &PgxTxManager{pool: pool, opts: ledgerTxOptions, log: log}
}

func (m *PgxTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	const op = "service.PgxTxManager.WithTx"

	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		m.rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// rollback не возвращает ошибку: исходная причина важнее, сбой отката только логируется
func (m *PgxTxManager) rollback(ctx context.Context, tx pgx.Tx) {
	// отменённый контекст не должен мешать откату
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		m.log.Error("не удалось откатить транзакцию", slog.String("error", err.Error()))
	}
}
