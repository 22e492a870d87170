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

type OwnerRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, owner models.Owner) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Owner, error)
}

type PgOwnerRepository struct {
	db DBTX
}

func NewOwnerRepository(db DBTX) OwnerRepository {
	return &PgOwnerRepository{db: db}
}

func (r *PgOwnerRepository) CreateTx(ctx context.Context, tx pgx.Tx, owner models.Owner) error {
	const op = "storage.CreateOwnerTx"

	_, err := tx.Exec(ctx, storage.CreateOwnerQuery,
		owner.ID,
		owner.FirstName,
		owner.LastName,
		owner.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: owner %s already exists: %w", op, owner.ID, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgOwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Owner, error) {
	const op = "storage.GetOwnerByID"

	var owner models.Owner
	err := r.db.QueryRow(ctx, storage.GetOwnerByIDQuery, id).Scan(
		&owner.ID,
		&owner.FirstName,
		&owner.LastName,
		&owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &owner, nil
}
