package grpc_client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"currency-exchanger/internal/models"
)

const GetExchangeRatesMethod = "/exchange.ExchangeService/GetExchangeRates"

// Empty запрос GetExchangeRates
type Empty struct{}

// ExchangeRatesResponse ответ exchanger сервиса
type ExchangeRatesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date,omitempty"`
	Rates map[string]float64 `json:"rates"`
}

type ExchangerClient interface {
	FetchRates(ctx context.Context) (*models.FetchedRates, error)
	Close() error
}

type grpcExchangerClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	log     *slog.Logger
}

func NewExchangerClient(addr string, timeout time.Duration, log *slog.Logger, opts ...grpc.DialOption) (ExchangerClient, error) {
	const op = "grpc_client.NewExchangerClient"

	log.Info("подключение к gRPC exchanger сервису", slog.String("addr", addr))

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(JSONCodecName)),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect: %w", op, err)
	}

	return &grpcExchangerClient{
		conn:    conn,
		timeout: timeout,
		log:     log,
	}, nil
}

func (c *grpcExchangerClient) FetchRates(ctx context.Context) (*models.FetchedRates, error) {
	const op = "grpc_client.FetchRates"

	start := time.Now()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var resp ExchangeRatesResponse
	if err := c.conn.Invoke(ctx, GetExchangeRatesMethod, &Empty{}, &resp); err != nil {
		c.log.Error("ошибка получения курсов", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	duration := time.Since(start)
	if duration > 100*time.Millisecond {
		c.log.Warn("медленный gRPC запрос",
			slog.String("op", op),
			slog.Duration("duration", duration))
	}

	rates := make(map[string]float64, len(resp.Rates))
	for currency, rate := range resp.Rates {
		rates[currency] = rate
	}

	return &models.FetchedRates{
		Base:  resp.Base,
		Date:  resp.Date,
		Rates: rates,
	}, nil
}

func (c *grpcExchangerClient) Close() error {
	if c.conn == nil {
		return nil
	}
	c.log.Info("закрытие соединения с exchanger сервисом")
	return c.conn.Close()
}
