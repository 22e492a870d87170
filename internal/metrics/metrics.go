package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExchangerMetrics содержит метрики курсов, обменов и баланса
type ExchangerMetrics struct {
	// Курсы
	RateFetchTotal    *prometheus.CounterVec
	RateFetchDuration prometheus.Histogram
	RateCacheHits     prometheus.Counter
	RatesFetchedAt    prometheus.Gauge

	// Обмены
	ExchangesTotal        *prometheus.CounterVec
	ExchangedAmountTotal  *prometheus.CounterVec
	LargeExchangeEvents   *prometheus.CounterVec
	BalanceAmount         *prometheus.GaugeVec
	ControllerErrorsTotal *prometheus.CounterVec
}

// New регистрирует метрики в reg. Nil reg означает prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *ExchangerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &ExchangerMetrics{
		RateFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rates_fetch_total",
				Help: "Количество запросов курсов к источнику",
			},
			[]string{"result"},
		),
		RateFetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rates_fetch_duration_seconds",
				Help:    "Время получения курсов от источника",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),
		RateCacheHits: f.NewCounter(
			prometheus.CounterOpts{
				Name: "rates_cache_hits_total",
				Help: "Количество ответов из кэша курсов без обращения к источнику",
			},
		),
		RatesFetchedAt: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "rates_fetched_timestamp_seconds",
				Help: "Unix-время последнего успешного обновления курсов",
			},
		),

		ExchangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchanges_total",
				Help: "Количество запросов на обмен по результату",
			},
			[]string{"from_currency", "to_currency", "result"},
		),
		ExchangedAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exchanged_amount_total",
				Help: "Сумма списаний по успешным обменам",
			},
			[]string{"from_currency"},
		),
		LargeExchangeEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "large_exchange_events_total",
				Help: "События о крупных обменах, отправленные в kafka",
			},
			[]string{"result"},
		),
		BalanceAmount: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledger_balance_amount",
				Help: "Текущий баланс владельца по валютам",
			},
			[]string{"currency"},
		),
		ControllerErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "controller_errors_total",
				Help: "Ошибки, опубликованные контроллером, по видам",
			},
			[]string{"kind"},
		),
	}
}

// RecordRateFetch записывает обращение к источнику курсов
func (m *ExchangerMetrics) RecordRateFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RateFetchTotal.WithLabelValues(result).Inc()
	m.RateFetchDuration.Observe(d.Seconds())
}

func (m *ExchangerMetrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.RateCacheHits.Inc()
}

func (m *ExchangerMetrics) RecordRatesCommitted(fetchedAt time.Time) {
	if m == nil {
		return
	}
	m.RatesFetchedAt.Set(float64(fetchedAt.Unix()))
}

// RecordExchange записывает результат обмена
func (m *ExchangerMetrics) RecordExchange(from, to string, amount float64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExchangesTotal.WithLabelValues(from, to, "error").Inc()
		return
	}
	m.ExchangesTotal.WithLabelValues(from, to, "ok").Inc()
	m.ExchangedAmountTotal.WithLabelValues(from).Add(amount)
}

func (m *ExchangerMetrics) RecordBalances(balances map[string]float64) {
	if m == nil {
		return
	}
	for currency, amount := range balances {
		m.BalanceAmount.WithLabelValues(currency).Set(amount)
	}
}

func (m *ExchangerMetrics) RecordLargeExchangeEvent(err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.LargeExchangeEvents.WithLabelValues(result).Inc()
}

func (m *ExchangerMetrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.ControllerErrorsTotal.WithLabelValues(kind).Inc()
}
