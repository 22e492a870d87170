package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/kafka"
	"currency-exchanger/internal/metrics"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/state"
)

const (
	DefaultRefreshInterval        = 5 * time.Second
	DefaultLargeExchangeThreshold = 30000.0

	defaultEventWorkers   = 5
	defaultEventQueueSize = 100
)

var errEventsStopped = errors.New("event workers stopped")

// Exchanger операции контроллера, доступные HTTP-слою
type Exchanger interface {
	Rates() *state.Cell[models.CachedRates]
	Balances() *state.Cell[models.Balances]
	Loading() *state.Cell[bool]
	Error() *state.Cell[*models.ErrorState]
	Owner() *models.Owner
	ForceRefreshRates(ctx context.Context) error
	CreateOwnerWithInitialBalances(ctx context.Context, firstName, lastName string, initial map[string]float64) (*models.Owner, error)
	SetInitialBalances(ctx context.Context, initial map[string]float64) (models.Balances, error)
	Quote(req models.ExchangeRequest) (*models.ExchangeQuote, error)
	RequestExchange(ctx context.Context, req models.ExchangeRequest) (*models.ExchangeResult, error)
	RecentExchanges(ctx context.Context, limit int) ([]models.ExchangeOperation, error)
	ClearError()
}

var _ Exchanger = (*ExchangeController)(nil)

type ControllerConfig struct {
	RefreshInterval time.Duration
	// LargeExchangeThreshold сумма, начиная с которой обмен уходит событием в kafka; 0 отключает
	LargeExchangeThreshold float64
	EventWorkers           int
	EventQueueSize         int
}

// ExchangeController связывает кэш курсов, конвертер и книгу балансов.
// Наблюдаемое состояние публикуется через ячейки state.Cell.
type ExchangeController struct {
	cache     *RateCache
	converter Converter
	ledger    *BalanceLedger
	producer  kafka.Producer
	metrics   *metrics.ExchangerMetrics
	log       *slog.Logger
	now       func() time.Time

	refreshInterval        time.Duration
	largeExchangeThreshold float64

	rates    *state.Cell[models.CachedRates]
	balances *state.Cell[models.Balances]
	loading  *state.Cell[bool]
	errState *state.Cell[*models.ErrorState]

	loadMu   sync.Mutex
	inflight int

	// ratesMu упорядочивает публикацию курсов; ratesVersion номер последней опубликованной фиксации кэша
	ratesMu      sync.Mutex
	ratesVersion uint64

	loopMu     sync.Mutex
	loopCancel context.CancelFunc
	loopDone   chan struct{}

	eventQueue chan models.LargeExchangeEvent
	wg         sync.WaitGroup
	stopCh     chan struct{}
	stopOnce   sync.Once
	// stopMu не даёт положить событие в очередь после того, как воркеры начали выходить
	stopMu  sync.RWMutex
	stopped bool
}

func NewExchangeController(
	cache *RateCache,
	converter Converter,
	ledger *BalanceLedger,
	producer kafka.Producer,
	m *metrics.ExchangerMetrics,
	cfg ControllerConfig,
	log *slog.Logger,
) *ExchangeController {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = defaultEventWorkers
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = defaultEventQueueSize
	}
	if producer == nil {
		producer = kafka.NewNoOpProducer(log)
	}

	c := &ExchangeController{
		cache:                  cache,
		converter:              converter,
		ledger:                 ledger,
		producer:               producer,
		metrics:                m,
		log:                    log,
		now:                    time.Now,
		refreshInterval:        cfg.RefreshInterval,
		largeExchangeThreshold: cfg.LargeExchangeThreshold,
		balances:               state.NewCell(ledger.Balances()),
		loading:                state.NewCell(false),
		errState:               state.NewCell[*models.ErrorState](nil),
		eventQueue:             make(chan models.LargeExchangeEvent, cfg.EventQueueSize),
		stopCh:                 make(chan struct{}),
	}

	initial, version := cache.Versioned()
	c.rates = state.NewCell(initial)
	c.ratesVersion = version

	// балансы публикуются из книги в порядке фиксации записей
	ledger.OnCommit(c.publishBalances)

	for i := 0; i < cfg.EventWorkers; i++ {
		c.wg.Add(1)
		go c.kafkaWorker(i)
	}

	return c
}

func (c *ExchangeController) Rates() *state.Cell[models.CachedRates] {
	return c.rates
}

func (c *ExchangeController) Balances() *state.Cell[models.Balances] {
	return c.balances
}

func (c *ExchangeController) Loading() *state.Cell[bool] {
	return c.loading
}

func (c *ExchangeController) Error() *state.Cell[*models.ErrorState] {
	return c.errState
}

func (c *ExchangeController) Owner() *models.Owner {
	return c.ledger.Owner()
}

// Start запускает цикл обновления курсов: обновить, подождать интервал, повторить.
// Повторный вызов при работающем цикле ничего не делает.
func (c *ExchangeController) Start(ctx context.Context) {
	c.loopMu.Lock()
	defer c.loopMu.Unlock()

	if c.loopDone != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.loopCancel = cancel
	c.loopDone = make(chan struct{})

	go c.refreshLoop(loopCtx, c.loopDone)

	c.log.Info("цикл обновления курсов запущен", slog.Duration("interval", c.refreshInterval))
}

func (c *ExchangeController) refreshLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("цикл обновления курсов остановлен")
			return
		case <-timer.C:
		}

		_ = c.refreshRates(ctx, false)
		timer.Reset(c.refreshInterval)
	}
}

// ForceRefreshRates обновляет курсы в обход окна свежести
func (c *ExchangeController) ForceRefreshRates(ctx context.Context) error {
	return c.refreshRates(ctx, true)
}

func (c *ExchangeController) refreshRates(ctx context.Context, force bool) error {
	c.beginLoading()
	defer c.endLoading()

	if _, err := c.cache.GetRates(ctx, force); err != nil {
		// отмена вызывающим не является сбоем источника
		if ctx.Err() == nil {
			c.fail(err)
		}
		return err
	}

	c.publishRates()
	return nil
}

// publishRates отдаёт в ячейку Rates текущее содержимое кэша, если оно новее опубликованного.
// Снимок читается под ratesMu, поэтому более старая таблица не может заменить более новую.
func (c *ExchangeController) publishRates() {
	c.ratesMu.Lock()
	defer c.ratesMu.Unlock()

	snapshot, version := c.cache.Versioned()
	if version <= c.ratesVersion {
		return
	}
	c.ratesVersion = version
	c.rates.Set(snapshot)
}

// CreateOwnerWithInitialBalances создаёт владельца и задаёт начальные балансы
func (c *ExchangeController) CreateOwnerWithInitialBalances(ctx context.Context, firstName, lastName string, initial map[string]float64) (*models.Owner, error) {
	return c.establishOwner(ctx, models.Owner{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}, initial)
}

// ResumeOwner загружает владельца по id, а если его нет в хранилище, создаёт
// владельца с этим id и начальными балансами. Нулевой id всегда создаёт нового.
func (c *ExchangeController) ResumeOwner(ctx context.Context, ownerID uuid.UUID, firstName, lastName string, initial map[string]float64) (*models.Owner, error) {
	if ownerID != uuid.Nil {
		owner, err := c.LoadOwner(ctx, ownerID)
		if err == nil {
			return owner, nil
		}
		if !errors.Is(err, custom_err.ErrNotFound) {
			return nil, err
		}
		c.log.Info("владелец не найден, создаётся новый", slog.String("owner_id", ownerID.String()))
	}

	return c.establishOwner(ctx, models.Owner{
		ID:        ownerID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}, initial)
}

func (c *ExchangeController) establishOwner(ctx context.Context, owner models.Owner, initial map[string]float64) (*models.Owner, error) {
	c.beginLoading()
	defer c.endLoading()

	if _, err := c.ledger.Establish(ctx, owner, initial); err != nil {
		c.fail(err)
		return nil, err
	}
	return c.ledger.Owner(), nil
}

// LoadOwner продолжает работу с ранее созданным владельцем
func (c *ExchangeController) LoadOwner(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	owner, err := c.ledger.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return owner, nil
}

// SetInitialBalances перезаписывает балансы перечисленных валют
func (c *ExchangeController) SetInitialBalances(ctx context.Context, initial map[string]float64) (models.Balances, error) {
	c.beginLoading()
	defer c.endLoading()

	balances, err := c.ledger.SetInitialBalances(ctx, initial)
	if err != nil {
		c.fail(err)
		return nil, err
	}
	return balances, nil
}

// Quote считает обмен без применения. Ошибки не публикуются в состояние.
func (c *ExchangeController) Quote(req models.ExchangeRequest) (*models.ExchangeQuote, error) {
	from, to, amount, err := parseExchangeRequest(req)
	if err != nil {
		return nil, err
	}

	cached := c.cache.Snapshot()
	if cached.IsEmpty() {
		return nil, custom_err.Validation(custom_err.ErrNoRates)
	}

	quote, err := c.converter.Quote(from, to, amount, cached)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// RequestExchange проверяет запрос, считает обмен по текущим курсам кэша и применяет его к книге.
// Любая ошибка публикуется в состояние Error.
func (c *ExchangeController) RequestExchange(ctx context.Context, req models.ExchangeRequest) (*models.ExchangeResult, error) {
	const op = "service.RequestExchange"

	c.beginLoading()
	defer c.endLoading()

	result, err := c.exchange(ctx, req)
	c.metrics.RecordExchange(currencyLabel(req.FromCurrency), currencyLabel(req.ToCurrency), sourceAmount(result), err)
	if err != nil {
		c.fail(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (c *ExchangeController) exchange(ctx context.Context, req models.ExchangeRequest) (*models.ExchangeResult, error) {
	from, to, amount, err := parseExchangeRequest(req)
	if err != nil {
		return nil, err
	}

	cached := c.cache.Snapshot()
	if cached.IsEmpty() {
		return nil, custom_err.Validation(custom_err.ErrNoRates)
	}

	if held := c.ledger.GetBalance(from); held < amount {
		return nil, custom_err.Validation(fmt.Errorf("%w: %s balance %v, need %v",
			custom_err.ErrInsufficientFunds, from, held, amount))
	}

	quote, err := c.converter.Quote(from, to, amount, cached)
	if err != nil {
		return nil, err
	}

	applied, err := c.ledger.ApplyExchange(ctx, from, to, quote.SourceAmount, quote.DestinationAmount)
	if err != nil {
		return nil, err
	}

	c.log.Info("обмен валют",
		slog.String("operation_id", applied.Operation.ID.String()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.Float64("amount", quote.SourceAmount),
		slog.Float64("rate", quote.Rate()),
		slog.Float64("exchanged_amount", quote.DestinationAmount))

	c.enqueueLargeExchange(applied.Operation, quote)

	return &models.ExchangeResult{
		Message:  "Exchange successful",
		Quote:    quote,
		Balances: applied.Balances.List(),
	}, nil
}

// RecentExchanges последние обмены из журнала
func (c *ExchangeController) RecentExchanges(ctx context.Context, limit int) ([]models.ExchangeOperation, error) {
	return c.ledger.RecentExchanges(ctx, limit)
}

// ClearError сбрасывает опубликованную ошибку
func (c *ExchangeController) ClearError() {
	c.errState.Set(nil)
}

func (c *ExchangeController) Shutdown(ctx context.Context) error {
	c.log.Info("shutting down exchange controller")

	c.loopMu.Lock()
	cancel, done := c.loopCancel, c.loopDone
	c.loopMu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			c.log.Warn("shutdown timeout exceeded")
			return ctx.Err()
		}
	}

	c.stopOnce.Do(func() {
		c.stopMu.Lock()
		c.stopped = true
		close(c.stopCh)
		c.stopMu.Unlock()
	})

	workersDone := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(workersDone)
	}()

	select {
	case <-workersDone:
		c.log.Info("all kafka workers stopped")
		return nil
	case <-ctx.Done():
		c.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}

func (c *ExchangeController) kafkaWorker(id int) {
	defer c.wg.Done()
	c.log.Debug("kafka worker started", slog.Int("worker_id", id))

	for {
		select {
		case event := <-c.eventQueue:
			c.sendEvent(id, event)

		case <-c.stopCh:
			// события, уже стоящие в очереди, отправляются до выхода
			for {
				select {
				case event := <-c.eventQueue:
					c.sendEvent(id, event)
				default:
					c.log.Debug("kafka worker stopping", slog.Int("worker_id", id))
					return
				}
			}
		}
	}
}

func (c *ExchangeController) sendEvent(workerID int, event models.LargeExchangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.producer.SendLargeExchangeEvent(ctx, event)
	c.metrics.RecordLargeExchangeEvent(err)
	if err != nil {
		c.log.Error("kafka send failed",
			slog.Int("worker_id", workerID),
			slog.String("operation_id", event.OperationID),
			slog.String("error", err.Error()))
		return
	}
	c.log.Info("event sent to kafka",
		slog.Int("worker_id", workerID),
		slog.String("operation_id", event.OperationID))
}

func (c *ExchangeController) enqueueLargeExchange(operation models.ExchangeOperation, quote models.ExchangeQuote) {
	if c.largeExchangeThreshold <= 0 {
		return
	}
	if quote.SourceAmount < c.largeExchangeThreshold && quote.DestinationAmount < c.largeExchangeThreshold {
		return
	}

	event := models.LargeExchangeEvent{
		OperationID:  operation.ID.String(),
		OwnerID:      operation.OwnerID,
		FromCurrency: string(quote.FromCurrency),
		ToCurrency:   string(quote.ToCurrency),
		Amount:       quote.SourceAmount,
		ExchangedAmt: quote.DestinationAmount,
		Rate:         quote.Rate(),
		Timestamp:    operation.CreatedAt,
	}

	c.stopMu.RLock()
	defer c.stopMu.RUnlock()

	if c.stopped {
		c.log.Warn("контроллер остановлен, событие о крупном обмене отброшено",
			slog.String("operation_id", event.OperationID),
			slog.Float64("amount", event.Amount))
		c.metrics.RecordLargeExchangeEvent(errEventsStopped)
		return
	}

	select {
	case c.eventQueue <- event:
		c.log.Debug("событие о крупном обмене добавлено в очередь", slog.String("operation_id", event.OperationID))
	default:
		c.log.Error("очередь событий переполнена, событие отброшено",
			slog.String("operation_id", event.OperationID),
			slog.Float64("amount", event.Amount))
	}
}

func (c *ExchangeController) publishBalances(balances models.Balances) {
	c.balances.Set(balances)

	values := make(map[string]float64, len(balances))
	for currency, amount := range balances {
		values[string(currency)] = amount
	}
	c.metrics.RecordBalances(values)
}

// fail классифицирует ошибку и публикует её, заменяя предыдущую
func (c *ExchangeController) fail(err error) {
	kind := custom_err.Classify(err)
	c.errState.Set(&models.ErrorState{
		Kind:       kind,
		Message:    err.Error(),
		OccurredAt: c.now(),
	})
	c.metrics.RecordError(string(kind))

	c.log.Warn("ошибка опубликована",
		slog.String("kind", string(kind)),
		slog.String("error", err.Error()))
}

func (c *ExchangeController) beginLoading() {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.inflight++
	if c.inflight == 1 {
		c.loading.Set(true)
	}
}

func (c *ExchangeController) endLoading() {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	c.inflight--
	if c.inflight == 0 {
		c.loading.Set(false)
	}
}

// parseExchangeRequest проверяет запрос в порядке: валюты заданы и корректны, валюты различны,
// сумма является конечным числом, сумма положительна
func parseExchangeRequest(req models.ExchangeRequest) (from, to models.Currency, amount float64, err error) {
	from = models.ParseCurrency(req.FromCurrency)
	to = models.ParseCurrency(req.ToCurrency)

	if from.IsEmpty() || to.IsEmpty() {
		return "", "", 0, custom_err.Validation(custom_err.ErrEmptyCurrency)
	}
	for _, code := range []models.Currency{from, to} {
		if !code.IsValid() {
			return "", "", 0, custom_err.Validation(fmt.Errorf("%w: %q", custom_err.ErrInvalidCurrency, code))
		}
	}
	if from == to {
		return "", "", 0, custom_err.Validation(custom_err.ErrSameCurrency)
	}

	amount, perr := strconv.ParseFloat(strings.TrimSpace(req.Amount), 64)
	if perr != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", "", 0, custom_err.Validation(fmt.Errorf("%w: %q", custom_err.ErrInvalidAmount, req.Amount))
	}
	if amount <= 0 {
		return "", "", 0, custom_err.Validation(custom_err.ErrNonPositiveAmount)
	}

	return from, to, amount, nil
}

func sourceAmount(result *models.ExchangeResult) float64 {
	if result == nil {
		return 0
	}
	return result.Quote.SourceAmount
}

func currencyLabel(code string) string {
	c := models.ParseCurrency(code)
	if !c.IsValid() {
		return "invalid"
	}
	return string(c)
}
