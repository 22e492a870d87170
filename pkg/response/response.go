package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"currency-exchanger/internal/custom_err"
)

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_input"`
	Message string `json:"message,omitempty"`
}

func WriteJSONError(w http.ResponseWriter, log *slog.Logger, status int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errCode, Message: message}); err != nil {
		log.Error("ошибка при кодировании JSON-ошибки", slog.String("error", err.Error()))
	}
}

func WriteJSONSuccess(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("ошибка при кодировании JSON-ответа", slog.String("error", err.Error()))
		}
	}
}

// WriteError отвечает статусом, соответствующим категории ошибки. Текст ошибки
// уходит в message, код ошибки берётся из причины, если она известна.
func WriteError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, code := StatusFor(err)
	WriteJSONError(w, log, status, code, err.Error())
}

// StatusFor сопоставляет ошибку с HTTP-статусом и машинным кодом
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, custom_err.ErrInsufficientFunds):
		if custom_err.Classify(err) == custom_err.KindLedger {
			return http.StatusUnprocessableEntity, "insufficient_funds"
		}
		return http.StatusBadRequest, "insufficient_funds"
	case errors.Is(err, custom_err.ErrOwnerNotEstablished):
		return http.StatusConflict, "owner_not_established"
	case errors.Is(err, custom_err.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, custom_err.ErrNoRates):
		return http.StatusServiceUnavailable, "no_rates"
	}

	switch custom_err.Classify(err) {
	case custom_err.KindValidation:
		return http.StatusBadRequest, "invalid_input"
	case custom_err.KindConversion:
		return http.StatusUnprocessableEntity, "conversion_failed"
	case custom_err.KindLedger:
		return http.StatusUnprocessableEntity, "ledger_rejected"
	case custom_err.KindNetwork:
		return http.StatusBadGateway, "rates_unavailable"
	case custom_err.KindStorage:
		return http.StatusInternalServerError, "storage_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
