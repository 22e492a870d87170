package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"currency-exchanger/internal/custom_err"
)

// RateTable неизменяемая таблица курсов относительно опорной валюты (pivot).
// Курс показывает, сколько единиц валюты дают за одну единицу опорной.
type RateTable struct {
	base  Currency
	rates map[Currency]float64
}

// NewRateTable копирует переданные курсы. Курсы должны быть положительными и
// конечными, курс опорной валюты, если он есть, равен 1.0.
func NewRateTable(base Currency, rates map[string]float64) (RateTable, error) {
	const op = "models.NewRateTable"

	table := RateTable{
		base:  base,
		rates: make(map[Currency]float64, len(rates)),
	}
	for code, rate := range rates {
		c := ParseCurrency(code)
		if c.IsEmpty() {
			return RateTable{}, fmt.Errorf("%s: empty currency code: %w", op, custom_err.ErrInvalidRate)
		}
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return RateTable{}, fmt.Errorf("%s: %s=%v: %w", op, c, rate, custom_err.ErrInvalidRate)
		}
		if c == base && rate != 1.0 {
			return RateTable{}, fmt.Errorf("%s: pivot %s has rate %v: %w", op, c, rate, custom_err.ErrInvalidRate)
		}
		table.rates[c] = rate
	}
	return table, nil
}

func (t RateTable) Base() Currency {
	return t.base
}

// Rate возвращает курс валюты; опорная валюта всегда известна с курсом 1.0
func (t RateTable) Rate(c Currency) (float64, bool) {
	if rate, ok := t.rates[c]; ok {
		return rate, true
	}
	if c == t.base && !t.base.IsEmpty() {
		return 1.0, true
	}
	return 0, false
}

func (t RateTable) IsEmpty() bool {
	return len(t.rates) == 0
}

func (t RateTable) Len() int {
	return len(t.rates)
}

// Currencies возвращает коды в алфавитном порядке
func (t RateTable) Currencies() []Currency {
	codes := make([]Currency, 0, len(t.rates))
	for c := range t.rates {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Map возвращает копию курсов, безопасную для изменения вызывающим кодом
func (t RateTable) Map() map[string]float64 {
	out := make(map[string]float64, len(t.rates))
	for c, r := range t.rates {
		out[string(c)] = r
	}
	return out
}

// CachedRates таблица курсов и момент её получения.
// Нулевое значение означает "курсы ещё не загружались".
type CachedRates struct {
	Table     RateTable
	FetchedAt time.Time
}

func (c CachedRates) IsEmpty() bool {
	return c.Table.IsEmpty()
}

// Age возраст кэша относительно now
func (c CachedRates) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// FetchedRates ответ источника курсов
type FetchedRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// RatesResponse курсы для API
type RatesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}
