package models

import (
	"time"

	"github.com/google/uuid"
)

// ExchangeRequest запрос на обмен валют. Amount приходит строкой, как из поля ввода,
// и разбирается при валидации.
type ExchangeRequest struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Amount       string `json:"amount"`
}

// ExchangeQuote вычисленный, но ещё не применённый обмен
type ExchangeQuote struct {
	FromCurrency      Currency  `json:"from_currency"`
	ToCurrency        Currency  `json:"to_currency"`
	SourceAmount      float64   `json:"source_amount"`
	DestinationAmount float64   `json:"destination_amount"`
	RatesFetchedAt    time.Time `json:"rates_fetched_at"`
}

// Rate фактический курс обмена from -> to
func (q ExchangeQuote) Rate() float64 {
	if q.SourceAmount == 0 {
		return 0
	}
	return q.DestinationAmount / q.SourceAmount
}

// ExchangeResult ответ на обмен валют
type ExchangeResult struct {
	Message  string        `json:"message"`
	Quote    ExchangeQuote `json:"quote"`
	Balances []Balance     `json:"balances"`
}

// ExchangeOperation запись журнала обменов
type ExchangeOperation struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	FromCurrency    Currency  `json:"from_currency"`
	ToCurrency      Currency  `json:"to_currency"`
	Amount          float64   `json:"amount"`
	ExchangedAmount float64   `json:"exchanged_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

// ExchangesResponse последние записи журнала обменов
type ExchangesResponse struct {
	Operations []ExchangeOperation `json:"operations"`
}
