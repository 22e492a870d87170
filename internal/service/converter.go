package service

import (
	"fmt"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
)

// Converter пересчитывает суммы через опорную валюту таблицы курсов.
// Не хранит состояния и не выполняет ввода-вывода.
type Converter struct {
	// UnknownAsPivot считает отсутствующую в таблице валюту равной опорной (курс 1.0).
	// По умолчанию такая валюта приводит к ErrUnknownCurrency.
	UnknownAsPivot bool
}

func NewConverter(unknownAsPivot bool) Converter {
	return Converter{UnknownAsPivot: unknownAsPivot}
}

// Convert переводит amount из from в to: (amount / fromRate) * toRate.
// Результат не округляется.
func (c Converter) Convert(from, to models.Currency, amount float64, rates models.RateTable) (float64, error) {
	const op = "service.Convert"

	if rates.IsEmpty() {
		return 0, custom_err.Conversion(custom_err.ErrNoRates)
	}
	if from == to {
		return amount, nil
	}

	fromRate, err := c.rate(from, rates)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	toRate, err := c.rate(to, rates)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return (amount / fromRate) * toRate, nil
}

// Quote считает обмен по снимку кэша и помечает его временем получения курсов
func (c Converter) Quote(from, to models.Currency, amount float64, cached models.CachedRates) (models.ExchangeQuote, error) {
	destination, err := c.Convert(from, to, amount, cached.Table)
	if err != nil {
		return models.ExchangeQuote{}, err
	}

	return models.ExchangeQuote{
		FromCurrency:      from,
		ToCurrency:        to,
		SourceAmount:      amount,
		DestinationAmount: destination,
		RatesFetchedAt:    cached.FetchedAt,
	}, nil
}

func (c Converter) rate(code models.Currency, rates models.RateTable) (float64, error) {
	if rate, ok := rates.Rate(code); ok {
		return rate, nil
	}
	if c.UnknownAsPivot {
		return 1.0, nil
	}
	return 0, custom_err.Conversion(fmt.Errorf("%w: %s", custom_err.ErrUnknownCurrency, code))
}
