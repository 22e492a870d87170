package storage

const (
	// Owner queries
	CreateOwnerQuery = `
		INSERT INTO owners (id, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4)
	`

	GetOwnerByIDQuery = `
		SELECT id, first_name, last_name, created_at
		FROM owners
		WHERE id = $1
	`

	// Balance queries
	// Одна строка на (owner_id, currency); повторная запись заменяет сумму
	UpsertBalanceQuery = `
		INSERT INTO balances (owner_id, currency, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, currency)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
	`

	GetOwnerBalancesQuery = `
		SELECT currency, amount
		FROM balances
		WHERE owner_id = $1
		ORDER BY currency
	`

	// Exchange journal
	CreateExchangeOperationQuery = `
		INSERT INTO exchange_operations (
			id, owner_id, from_currency, to_currency, amount, exchanged_amount, rate, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	GetRecentExchangeOperationsQuery = `
		SELECT id, owner_id, from_currency, to_currency, amount, exchanged_amount, created_at
		FROM exchange_operations
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
)
