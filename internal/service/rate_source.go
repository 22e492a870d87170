package service

import (
	"context"
	"log/slog"
	"time"

	"currency-exchanger/internal/models"
)

// RateSource отдаёт актуальную таблицу курсов относительно опорной валюты
type RateSource interface {
	FetchRates(ctx context.Context) (*models.FetchedRates, error)
}

// RateSnapshotStore хранит копию последней таблицы курсов вне процесса
type RateSnapshotStore interface {
	Save(ctx context.Context, rates models.CachedRates) error
	Load(ctx context.Context) (models.CachedRates, error)
}

type loggingRateSource struct {
	next RateSource
	log  *slog.Logger
}

// NewLoggingRateSource логирует каждое обращение к источнику курсов
func NewLoggingRateSource(log *slog.Logger, next RateSource) RateSource {
	return &loggingRateSource{
		next: next,
		log:  log,
	}
}

func (s *loggingRateSource) FetchRates(ctx context.Context) (rates *models.FetchedRates, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.log.Warn("не удалось получить курсы",
				slog.Duration("took", time.Since(begin)),
				slog.String("error", err.Error()))
			return
		}
		s.log.Debug("курсы получены",
			slog.String("base", rates.Base),
			slog.Int("count", len(rates.Rates)),
			slog.Duration("took", time.Since(begin)))
	}(time.Now())
	return s.next.FetchRates(ctx)
}
