package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
)

const (
	SnapshotKey     = "rates:snapshot"
	UpdatedChannel  = "rates_updated"
	defaultSnapshot = 24 * time.Hour
)

type snapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// RateSnapshotStore хранит последнюю таблицу курсов в redis и оповещает об обновлении
type RateSnapshotStore struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *slog.Logger
}

func NewRateSnapshotStore(rdb redis.Cmdable, ttl time.Duration, log *slog.Logger) *RateSnapshotStore {
	if ttl <= 0 {
		ttl = defaultSnapshot
	}
	return &RateSnapshotStore{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func InitClient(ctx context.Context, options *redis.Options) (*redis.Client, error) {
	const op = "storage.redis.InitClient"

	client := redis.NewClient(options)
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (s *RateSnapshotStore) Save(ctx context.Context, rates models.CachedRates) error {
	const op = "storage.redis.Save"

	data, err := json.Marshal(snapshot{
		Base:      string(rates.Table.Base()),
		Rates:     rates.Table.Map(),
		FetchedAt: rates.FetchedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: marshal error: %w", op, err)
	}

	if err := s.rdb.Set(ctx, SnapshotKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Publish(ctx, UpdatedChannel, rates.FetchedAt.UTC().Format(time.RFC3339)).Err(); err != nil {
		s.log.Warn("не удалось опубликовать обновление курсов", slog.String("error", err.Error()))
	}
	return nil
}

func (s *RateSnapshotStore) Load(ctx context.Context) (models.CachedRates, error) {
	const op = "storage.redis.Load"

	data, err := s.rdb.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.CachedRates{}, custom_err.ErrNotFound
		}
		return models.CachedRates{}, fmt.Errorf("%s: %w", op, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.CachedRates{}, fmt.Errorf("%s: unmarshal error: %w", op, err)
	}

	table, err := models.NewRateTable(models.ParseCurrency(snap.Base), snap.Rates)
	if err != nil {
		return models.CachedRates{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.CachedRates{Table: table, FetchedAt: snap.FetchedAt}, nil
}
