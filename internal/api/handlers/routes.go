package handlers

import (
	"github.com/go-chi/chi/v5"

	"currency-exchanger/internal/service"
)

// Register монтирует маршруты API на r
func Register(r chi.Router, svc service.Exchanger) {
	exchange := NewExchangeHandler(svc)
	ledger := NewLedgerHandler(svc)

	r.Get("/rates", exchange.GetRates)
	r.Post("/rates/refresh", exchange.RefreshRates)
	r.Post("/exchange", exchange.ExchangeCurrency)
	r.Post("/quote", exchange.QuoteExchange)
	r.Get("/exchanges", exchange.RecentExchanges)

	r.Get("/balances", ledger.GetBalances)
	r.Put("/balances", ledger.SetBalances)
	r.Post("/owner", ledger.CreateOwner)
	r.Get("/state", ledger.GetState)
	r.Delete("/state/error", ledger.ClearError)
}
