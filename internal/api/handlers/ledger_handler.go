package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"currency-exchanger/internal/api/middlew"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/service"
	"currency-exchanger/pkg/response"
)

type LedgerHandler struct {
	service service.Exchanger
}

func NewLedgerHandler(service service.Exchanger) *LedgerHandler {
	return &LedgerHandler{
		service: service,
	}
}

// GetBalances godoc
// @Summary      Получить балансы
// @Description  Возвращает остатки владельца по всем валютам
// @Tags         ledger
// @Produce      json
// @Success      200 {object} models.BalancesResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /balances [get]
func (h *LedgerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	owner := h.service.Owner()
	if owner == nil {
		response.WriteJSONError(w, log, http.StatusConflict, "owner_not_established", "Ledger owner is not established")
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.BalancesResponse{
		OwnerID:  owner.ID,
		Balances: h.service.Balances().Get().List(),
	})
}

// SetBalances godoc
// @Summary      Задать балансы
// @Description  Перезаписывает остатки перечисленных валют, остальные не меняются
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body models.SetBalancesRequest true "Новые остатки"
// @Success      200 {object} models.BalancesResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /balances [put]
func (h *LedgerHandler) SetBalances(w http.ResponseWriter, r *http.Request) {
	const op = "handler.SetBalances"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.SetBalancesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}
	if len(req.Balances) == 0 {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "balances must not be empty")
		return
	}

	balances, err := h.service.SetInitialBalances(r.Context(), req.Balances)
	if err != nil {
		log.Warn("failed to set balances", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteError(w, log, err)
		return
	}

	resp := models.BalancesResponse{Balances: balances.List()}
	if owner := h.service.Owner(); owner != nil {
		resp.OwnerID = owner.ID
	}
	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// CreateOwner godoc
// @Summary      Создать владельца
// @Description  Создаёт владельца леджера с начальными остатками и заменяет текущего
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body models.CreateOwnerRequest true "Владелец и начальные остатки"
// @Success      201 {object} models.OwnerResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /owner [post]
func (h *LedgerHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	const op = "handler.CreateOwner"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return
	}

	owner, err := h.service.CreateOwnerWithInitialBalances(r.Context(), req.FirstName, req.LastName, req.InitialBalances)
	if err != nil {
		log.Warn("failed to create owner", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteError(w, log, err)
		return
	}

	log.Info("владелец создан", slog.String("op", op), slog.String("owner_id", owner.ID.String()))

	response.WriteJSONSuccess(w, log, http.StatusCreated, models.OwnerResponse{
		Owner:    *owner,
		Balances: h.service.Balances().Get().List(),
	})
}

// GetState godoc
// @Summary      Состояние контроллера
// @Description  Флаг загрузки и последняя опубликованная ошибка
// @Tags         state
// @Produce      json
// @Success      200 {object} models.StateResponse
// @Router       /state [get]
func (h *LedgerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	response.WriteJSONSuccess(w, log, http.StatusOK, models.StateResponse{
		Loading: h.service.Loading().Get(),
		Error:   h.service.Error().Get(),
	})
}

// ClearError godoc
// @Summary      Сбросить ошибку
// @Tags         state
// @Success      204
// @Router       /state/error [delete]
func (h *LedgerHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	h.service.ClearError()
	response.WriteJSONSuccess(w, log, http.StatusNoContent, nil)
}
