package http_client

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRatesClient_FetchRates_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/currency-exchange-rates", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","date":"2026-05-01","rates":{"EUR":1,"USD":1.1,"PHP":61.3}}`))
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL+"/currency-exchange-rates", time.Second, testLogger())

	rates, err := client.FetchRates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "EUR", rates.Base)
	assert.Equal(t, "2026-05-01", rates.Date)
	assert.Equal(t, map[string]float64{"EUR": 1, "USD": 1.1, "PHP": 61.3}, rates.Rates)
}

func TestRatesClient_FetchRates_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Second, testLogger())

	_, err := client.FetchRates(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
}

func TestRatesClient_FetchRates_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":`))
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Second, testLogger())

	_, err := client.FetchRates(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal error")
}

func TestRatesClient_FetchRates_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{}}`))
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Second, testLogger())

	_, err := client.FetchRates(context.Background())

	assert.Error(t, err)
}

func TestRatesClient_FetchRates_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, 50*time.Millisecond, testLogger())

	_, err := client.FetchRates(context.Background())

	assert.Error(t, err)
}

func TestRatesClient_FetchRates_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.1}}`))
	}))
	defer srv.Close()

	client := NewRatesClient(srv.URL, time.Second, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchRates(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
