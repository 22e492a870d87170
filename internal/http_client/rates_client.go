package http_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"currency-exchanger/internal/models"
)

// maxBodySize ограничивает размер ответа источника курсов
const maxBodySize = 1 << 20

type RatesClient struct {
	client *http.Client
	url    string
	log    *slog.Logger
}

func NewRatesClient(url string, timeout time.Duration, log *slog.Logger) *RatesClient {
	return &RatesClient{
		client: &http.Client{Timeout: timeout},
		url:    url,
		log:    log,
	}
}

// FetchRates запрашивает GET url и ожидает {"base": "...", "date": "...", "rates": {...}}
func (c *RatesClient) FetchRates(ctx context.Context) (*models.FetchedRates, error) {
	const op = "http_client.FetchRates"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request error: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: get error: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: bad status: %s", op, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read body error: %w", op, err)
	}

	var result models.FetchedRates
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%s: json unmarshal error: %w", op, err)
	}
	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("%s: response has no rates", op)
	}

	c.log.Debug("получен ответ источника курсов",
		slog.String("base", result.Base),
		slog.String("date", result.Date),
		slog.Int("count", len(result.Rates)))

	return &result, nil
}
