package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/metrics"
	"currency-exchanger/internal/models"
)

const (
	DefaultFreshnessWindow = 30 * time.Minute
	defaultFetchTimeout    = 10 * time.Second
	ratesFlightKey         = "rates"
)

var errEmptyResponse = errors.New("source returned no rates")

// RateCache хранит последнюю полученную таблицу курсов и решает, когда её обновлять.
// Одновременные запросы на обновление объединяются в одно обращение к источнику.
type RateCache struct {
	source RateSource
	pivot  models.Currency
	window time.Duration

	mu      sync.RWMutex
	cached  models.CachedRates
	version uint64

	group        singleflight.Group
	now          func() time.Time
	fetchTimeout time.Duration
	snapshots    RateSnapshotStore
	metrics      *metrics.ExchangerMetrics
	log          *slog.Logger
}

type RateCacheOption func(*RateCache)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) { c.now = now }
}

func WithSnapshotStore(store RateSnapshotStore) RateCacheOption {
	return func(c *RateCache) { c.snapshots = store }
}

func WithRateMetrics(m *metrics.ExchangerMetrics) RateCacheOption {
	return func(c *RateCache) { c.metrics = m }
}

// WithFetchTimeout ограничивает одно обращение к источнику
func WithFetchTimeout(d time.Duration) RateCacheOption {
	return func(c *RateCache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

func NewRateCache(source RateSource, pivot models.Currency, window time.Duration, log *slog.Logger, opts ...RateCacheOption) *RateCache {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	c := &RateCache{
		source:       source,
		pivot:        pivot,
		window:       window,
		now:          time.Now,
		fetchTimeout: defaultFetchTimeout,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot возвращает текущее содержимое кэша без обращения к источнику
func (c *RateCache) Snapshot() models.CachedRates {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached
}

// Versioned возвращает содержимое кэша вместе с номером фиксации.
// Номер растёт на каждой сохранённой таблице.
func (c *RateCache) Versioned() (models.CachedRates, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached, c.version
}

// GetRates отдаёт кэш, если он не пуст и не старше окна свежести, иначе запрашивает источник.
// При ошибке кэш не меняется.
func (c *RateCache) GetRates(ctx context.Context, forceRefresh bool) (models.RateTable, error) {
	if !forceRefresh {
		cached := c.Snapshot()
		if !cached.IsEmpty() && cached.Age(c.now()) <= c.window {
			c.metrics.RecordCacheHit()
			return cached.Table, nil
		}
	}

	ch := c.group.DoChan(ratesFlightKey, func() (interface{}, error) {
		return c.refresh(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.RateTable{}, res.Err
		}
		return res.Val.(models.CachedRates).Table, nil
	case <-ctx.Done():
		return models.RateTable{}, custom_err.RateFetch(ctx.Err())
	}
}

// refresh выполняет одно обращение к источнику. Контекст отвязан от отмены вызывающего,
// чтобы результат общего запроса целиком либо сохранился, либо был отброшен.
func (c *RateCache) refresh(parent context.Context) (models.CachedRates, error) {
	const op = "service.RateCache.refresh"

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.fetchTimeout)
	defer cancel()

	begin := time.Now()
	fetched, err := c.source.FetchRates(ctx)
	c.metrics.RecordRateFetch(time.Since(begin), err)
	if err != nil {
		return models.CachedRates{}, custom_err.RateFetch(fmt.Errorf("%s: %w", op, err))
	}
	if fetched == nil {
		return models.CachedRates{}, custom_err.RateFetch(fmt.Errorf("%s: %w", op, errEmptyResponse))
	}

	base := models.ParseCurrency(fetched.Base)
	if base.IsEmpty() {
		base = c.pivot
	}
	if base != c.pivot {
		c.log.Warn("опорная валюта источника отличается от настроенной",
			slog.String("source_base", string(base)),
			slog.String("pivot", string(c.pivot)))
	}

	table, err := models.NewRateTable(base, fetched.Rates)
	if err != nil {
		return models.CachedRates{}, custom_err.RateFetch(fmt.Errorf("%s: %w", op, err))
	}
	if table.IsEmpty() {
		return models.CachedRates{}, custom_err.RateFetch(fmt.Errorf("%s: %w", op, custom_err.ErrNoRates))
	}

	fresh := models.CachedRates{Table: table, FetchedAt: c.now()}

	c.mu.Lock()
	c.cached = fresh
	c.version++
	c.mu.Unlock()

	c.metrics.RecordRatesCommitted(fresh.FetchedAt)
	c.log.Info("курсы обновлены",
		slog.String("base", string(table.Base())),
		slog.Int("count", table.Len()),
		slog.String("date", fetched.Date))

	if c.snapshots != nil {
		if err := c.snapshots.Save(ctx, fresh); err != nil {
			c.log.Warn("не удалось сохранить снимок курсов", slog.String("error", err.Error()))
		}
	}

	return fresh, nil
}

// Warm заполняет пустой кэш из внешнего снимка. Время снимка сохраняется,
// так что устаревший снимок будет обновлён при первом же запросе.
func (c *RateCache) Warm(ctx context.Context) error {
	const op = "service.RateCache.Warm"

	if c.snapshots == nil {
		return nil
	}

	snapshot, err := c.snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if snapshot.IsEmpty() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cached.IsEmpty() {
		return nil
	}
	c.cached = snapshot
	c.version++

	c.log.Info("курсы загружены из снимка",
		slog.Int("count", snapshot.Table.Len()),
		slog.Time("fetched_at", snapshot.FetchedAt))
	return nil
}
