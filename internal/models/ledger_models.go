package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Owner владелец леджера
type Owner struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Balance остаток владельца в одной валюте, всегда >= 0
type Balance struct {
	Currency Currency `json:"currency" db:"currency"`
	Amount   float64  `json:"amount" db:"amount"`
}

// Balances снимок всех остатков владельца
type Balances map[Currency]float64

// Clone возвращает независимую копию
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for c, a := range b {
		out[c] = a
	}
	return out
}

// List возвращает остатки списком, отсортированным по коду валюты
func (b Balances) List() []Balance {
	list := make([]Balance, 0, len(b))
	for c, a := range b {
		list = append(list, Balance{Currency: c, Amount: a})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Currency < list[j].Currency })
	return list
}

// CreateOwnerRequest запрос на создание владельца с начальными остатками
type CreateOwnerRequest struct {
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	InitialBalances map[string]float64 `json:"initial_balances"`
}

// BalancesResponse остатки владельца
type BalancesResponse struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	Balances []Balance `json:"balances"`
}

// SetBalancesRequest перезапись остатков перечисленных валют
type SetBalancesRequest struct {
	Balances map[string]float64 `json:"balances"`
}

// OwnerResponse владелец вместе с остатками
type OwnerResponse struct {
	Owner    Owner     `json:"owner"`
	Balances []Balance `json:"balances"`
}
