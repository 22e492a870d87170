package models

import (
	"time"

	"github.com/google/uuid"
)

// событие о крупном обмене (>= порога из конфигурации)
type LargeExchangeEvent struct {
	OperationID  string    `json:"operation_id"`     // ID операции в журнале
	OwnerID      uuid.UUID `json:"owner_id"`         // ID владельца леджера
	FromCurrency string    `json:"from_currency"`    // Исходная валюта
	ToCurrency   string    `json:"to_currency"`      // Целевая валюта
	Amount       float64   `json:"amount"`           // Сумма в исходной валюте
	ExchangedAmt float64   `json:"exchanged_amount"` // Сумма после обмена
	Rate         float64   `json:"rate"`             // Курс обмена
	Timestamp    time.Time `json:"timestamp"`        // Время операции
}
