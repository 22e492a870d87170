package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-exchanger/internal/custom_err"
)

func TestNewRateTable_Success(t *testing.T) {
	table, err := NewRateTable("EUR", map[string]float64{"eur": 1.0, " usd ": 1.1, "GBP": 0.85})

	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []Currency{"EUR", "GBP", "USD"}, table.Currencies())

	rate, ok := table.Rate("USD")
	assert.True(t, ok)
	assert.Equal(t, 1.1, rate)
}

func TestNewRateTable_PivotAbsentResolvesToOne(t *testing.T) {
	table, err := NewRateTable("EUR", map[string]float64{"USD": 1.1})
	require.NoError(t, err)

	rate, ok := table.Rate("EUR")
	assert.True(t, ok)
	assert.Equal(t, 1.0, rate)

	_, ok = table.Rate("PHP")
	assert.False(t, ok)
}

func TestNewRateTable_InvalidRates(t *testing.T) {
	tests := []struct {
		name  string
		rates map[string]float64
	}{
		{"zero rate", map[string]float64{"USD": 0}},
		{"negative rate", map[string]float64{"USD": -1.1}},
		{"NaN rate", map[string]float64{"USD": math.NaN()}},
		{"infinite rate", map[string]float64{"USD": math.Inf(1)}},
		{"pivot not one", map[string]float64{"EUR": 1.2}},
		{"empty code", map[string]float64{" ": 1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRateTable("EUR", tt.rates)
			assert.ErrorIs(t, err, custom_err.ErrInvalidRate)
		})
	}
}

func TestRateTable_MapIsACopy(t *testing.T) {
	table, err := NewRateTable("EUR", map[string]float64{"USD": 1.1})
	require.NoError(t, err)

	m := table.Map()
	m["USD"] = 42

	rate, _ := table.Rate("USD")
	assert.Equal(t, 1.1, rate)
}

func TestCachedRates_ZeroValueIsEmpty(t *testing.T) {
	var cached CachedRates

	assert.True(t, cached.IsEmpty())
	assert.True(t, cached.FetchedAt.IsZero())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.FetchedAt = now.Add(-time.Minute)
	assert.Equal(t, time.Minute, cached.Age(now))
}

func TestBalances_ListSorted(t *testing.T) {
	b := Balances{"USD": 110, "EUR": 900, "PHP": 0}

	assert.Equal(t, []Balance{
		{Currency: "EUR", Amount: 900},
		{Currency: "PHP", Amount: 0},
		{Currency: "USD", Amount: 110},
	}, b.List())
}
