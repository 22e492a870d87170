package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-exchanger/internal/custom_err"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", custom_err.Validation(custom_err.ErrSameCurrency), http.StatusBadRequest, "invalid_input"},
		{"precheck funds", custom_err.Validation(custom_err.ErrInsufficientFunds), http.StatusBadRequest, "insufficient_funds"},
		{"ledger funds", custom_err.Ledger(custom_err.ErrInsufficientFunds), http.StatusUnprocessableEntity, "insufficient_funds"},
		{"no owner", custom_err.Ledger(custom_err.ErrOwnerNotEstablished), http.StatusConflict, "owner_not_established"},
		{"not found", custom_err.Storage(custom_err.ErrNotFound), http.StatusNotFound, "not_found"},
		{"no rates", custom_err.Validation(custom_err.ErrNoRates), http.StatusServiceUnavailable, "no_rates"},
		{"conversion", custom_err.Conversion(custom_err.ErrUnknownCurrency), http.StatusUnprocessableEntity, "conversion_failed"},
		{"network", custom_err.RateFetch(errors.New("timeout")), http.StatusBadGateway, "rates_unavailable"},
		{"storage", custom_err.Storage(errors.New("conn reset")), http.StatusInternalServerError, "storage_error"},
		{"wrapped", fmt.Errorf("handler: %w", custom_err.Validation(custom_err.ErrInvalidAmount)), http.StatusBadRequest, "invalid_input"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	WriteError(rec, log, custom_err.Validation(custom_err.ErrSameCurrency))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid_input", body.Error)
	assert.Contains(t, body.Message, "cannot exchange same currency")
}

func TestWriteJSONSuccess_NilBody(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()

	WriteJSONSuccess(rec, log, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
