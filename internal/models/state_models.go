package models

import (
	"time"

	"currency-exchanger/internal/custom_err"
)

// ErrorState последняя необработанная ошибка, показываемая пользователю
type ErrorState struct {
	Kind       custom_err.Kind `json:"kind"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// StateResponse текущее наблюдаемое состояние контроллера
type StateResponse struct {
	Loading bool        `json:"loading"`
	Error   *ErrorState `json:"error,omitempty"`
}
