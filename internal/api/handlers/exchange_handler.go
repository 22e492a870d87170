package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"currency-exchanger/internal/api/middlew"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/service"
	"currency-exchanger/pkg/response"
)

const (
	defaultExchangesLimit = 20
	maxExchangesLimit     = 100
)

type ExchangeHandler struct {
	service service.Exchanger
}

func NewExchangeHandler(service service.Exchanger) *ExchangeHandler {
	return &ExchangeHandler{
		service: service,
	}
}

// GetRates godoc
// @Summary      Получить курсы валют
// @Description  Возвращает последнюю таблицу курсов из кэша без обращения к источнику
// @Tags         rates
// @Produce      json
// @Success      200 {object} models.RatesResponse
// @Failure      503 {object} response.ErrorResponse
// @Router       /rates [get]
func (h *ExchangeHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	cached := h.service.Rates().Get()
	if cached.IsEmpty() {
		response.WriteJSONError(w, log, http.StatusServiceUnavailable, "no_rates", "Exchange rates are not loaded yet")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, ratesResponse(cached))
}

// RefreshRates godoc
// @Summary      Обновить курсы
// @Description  Запрашивает источник курсов в обход окна свежести
// @Tags         rates
// @Produce      json
// @Success      200 {object} models.RatesResponse
// @Failure      502 {object} response.ErrorResponse
// @Router       /rates/refresh [post]
func (h *ExchangeHandler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	const op = "handler.RefreshRates"
	log := middlew.GetLogger(r.Context())

	if err := h.service.ForceRefreshRates(r.Context()); err != nil {
		log.Warn("rates refresh failed", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteError(w, log, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, ratesResponse(h.service.Rates().Get()))
}

// ExchangeCurrency godoc
// @Summary      Обменять валюту
// @Description  Выполняет обмен по текущим курсам кэша и применяет его к балансам
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request body models.ExchangeRequest true "Данные обмена"
// @Success      200 {object} models.ExchangeResult
// @Failure      400 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Router       /exchange [post]
func (h *ExchangeHandler) ExchangeCurrency(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ExchangeCurrency"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	log.Info("запрос на обмен валют",
		slog.String("op", op),
		slog.String("from", req.FromCurrency),
		slog.String("to", req.ToCurrency),
		slog.String("amount", req.Amount))

	result, err := h.service.RequestExchange(r.Context(), req)
	if err != nil {
		log.Warn("exchange rejected", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteError(w, log, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, result)
}

// QuoteExchange godoc
// @Summary      Предварительный расчёт обмена
// @Description  Считает сумму к получению, не меняя балансы
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request body models.ExchangeRequest true "Данные обмена"
// @Success      200 {object} models.ExchangeQuote
// @Failure      400 {object} response.ErrorResponse
// @Router       /quote [post]
func (h *ExchangeHandler) QuoteExchange(w http.ResponseWriter, r *http.Request) {
	const op = "handler.QuoteExchange"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	quote, err := h.service.Quote(req)
	if err != nil {
		response.WriteError(w, log, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, quote)
}

// RecentExchanges godoc
// @Summary      Журнал обменов
// @Description  Последние обмены владельца, новые первыми
// @Tags         exchange
// @Produce      json
// @Param        limit query int false "Количество записей (1-100)"
// @Success      200 {object} models.ExchangesResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /exchanges [get]
func (h *ExchangeHandler) RecentExchanges(w http.ResponseWriter, r *http.Request) {
	const op = "handler.RecentExchanges"
	log := middlew.GetLogger(r.Context())

	limit := defaultExchangesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxExchangesLimit {
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	ops, err := h.service.RecentExchanges(r.Context(), limit)
	if err != nil {
		log.Error("failed to read exchange journal", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteError(w, log, err)
		return
	}
	if ops == nil {
		ops = []models.ExchangeOperation{}
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.ExchangesResponse{Operations: ops})
}

func ratesResponse(cached models.CachedRates) models.RatesResponse {
	return models.RatesResponse{
		Base:      string(cached.Table.Base()),
		Rates:     cached.Table.Map(),
		FetchedAt: cached.FetchedAt,
	}
}
