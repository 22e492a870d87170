package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"currency-exchanger/internal/custom_err"
	"currency-exchanger/internal/models"
)

// LedgerStore постоянное хранилище владельца и его балансов
type LedgerStore interface {
	CreateOwner(ctx context.Context, owner models.Owner, balances models.Balances) error
	GetOwner(ctx context.Context, id uuid.UUID) (*models.Owner, error)
	SaveBalances(ctx context.Context, ownerID uuid.UUID, balances models.Balances) error
	GetBalances(ctx context.Context, ownerID uuid.UUID) (models.Balances, error)
	// SaveExchange записывает обе строки баланса и запись журнала в одной транзакции
	SaveExchange(ctx context.Context, op models.ExchangeOperation, balances models.Balances) error
	RecentExchanges(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.ExchangeOperation, error)
}

// AppliedExchange подтверждённый результат обмена
type AppliedExchange struct {
	Operation models.ExchangeOperation
	Balances  models.Balances
}

// BalanceLedger единственный источник истины о балансах владельца.
// Писатели выполняются строго по одному: проверка, запись в хранилище и замена
// значений в памяти идут под writeMu. Читатели берут только короткую блокировку
// на чтение и не видят наполовину применённый обмен.
type BalanceLedger struct {
	store LedgerStore
	log   *slog.Logger
	now   func() time.Time

	writeMu  sync.Mutex
	onCommit func(models.Balances)

	mu       sync.RWMutex
	owner    *models.Owner
	balances models.Balances
}

func NewBalanceLedger(store LedgerStore, log *slog.Logger) *BalanceLedger {
	return &BalanceLedger{
		store:    store,
		log:      log,
		now:      time.Now,
		balances: make(models.Balances),
	}
}

// OnCommit задаёт обработчик, который получает копию балансов после каждой
// подтверждённой записи. Вызывается под блокировкой писателя, поэтому порядок
// вызовов совпадает с порядком записей.
func (l *BalanceLedger) OnCommit(fn func(models.Balances)) {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	l.onCommit = fn
}

func (l *BalanceLedger) committed(balances models.Balances) {
	if l.onCommit != nil {
		l.onCommit(balances.Clone())
	}
}

// Owner возвращает текущего владельца или nil, если он ещё не установлен
func (l *BalanceLedger) Owner() *models.Owner {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.owner == nil {
		return nil
	}
	owner := *l.owner
	return &owner
}

// GetBalance возвращает 0 для валюты, которой нет в книге
func (l *BalanceLedger) GetBalance(currency models.Currency) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[currency]
}

func (l *BalanceLedger) Balances() models.Balances {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances.Clone()
}

// Establish создаёт владельца с начальными балансами. Повторный вызов заменяет владельца.
func (l *BalanceLedger) Establish(ctx context.Context, owner models.Owner, initial map[string]float64) (models.Balances, error) {
	const op = "service.BalanceLedger.Establish"

	balances, err := parseInitialBalances(initial)
	if err != nil {
		return nil, err
	}
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}
	if owner.CreatedAt.IsZero() {
		owner.CreatedAt = l.now()
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if err := l.store.CreateOwner(ctx, owner, balances); err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}

	l.mu.Lock()
	l.owner = &owner
	l.balances = balances
	l.mu.Unlock()
	l.committed(balances)

	l.log.Info("владелец установлен",
		slog.String("owner_id", owner.ID.String()),
		slog.Any("balances", balances))

	return balances.Clone(), nil
}

// SetInitialBalances перезаписывает балансы перечисленных валют; остальные не меняются
func (l *BalanceLedger) SetInitialBalances(ctx context.Context, initial map[string]float64) (models.Balances, error) {
	const op = "service.BalanceLedger.SetInitialBalances"

	changes, err := parseInitialBalances(initial)
	if err != nil {
		return nil, err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	owner := l.Owner()
	if owner == nil {
		return nil, custom_err.Ledger(custom_err.ErrOwnerNotEstablished)
	}

	if err := l.store.SaveBalances(ctx, owner.ID, changes); err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}

	l.mu.Lock()
	next := l.balances.Clone()
	for c, amount := range changes {
		next[c] = amount
	}
	l.balances = next
	l.mu.Unlock()
	l.committed(next)

	return next.Clone(), nil
}

// Load поднимает существующего владельца и его балансы из хранилища
func (l *BalanceLedger) Load(ctx context.Context, ownerID uuid.UUID) (*models.Owner, error) {
	const op = "service.BalanceLedger.Load"

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	owner, err := l.store.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	balances, err := l.store.GetBalances(ctx, ownerID)
	if err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	if balances == nil {
		balances = make(models.Balances)
	}

	l.mu.Lock()
	l.owner = owner
	l.balances = balances
	l.mu.Unlock()
	l.committed(balances)

	l.log.Info("владелец загружен",
		slog.String("owner_id", owner.ID.String()),
		slog.Int("currencies", len(balances)))

	result := *owner
	return &result, nil
}

// ApplyExchange списывает debit с from и зачисляет credit на to как одну операцию.
// Обе строки сначала записываются в хранилище и только потом заменяются в памяти;
// при ошибке хранилища состояние не меняется.
func (l *BalanceLedger) ApplyExchange(ctx context.Context, from, to models.Currency, debit, credit float64) (*AppliedExchange, error) {
	const op = "service.BalanceLedger.ApplyExchange"

	if from == to {
		return nil, custom_err.Ledger(custom_err.ErrSameCurrency)
	}
	if !validAmount(debit) || !validAmount(credit) {
		return nil, custom_err.Ledger(fmt.Errorf("%w: debit=%v credit=%v", custom_err.ErrInvalidAmount, debit, credit))
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	l.mu.RLock()
	owner := l.owner
	fromBalance := l.balances[from]
	toBalance := l.balances[to]
	l.mu.RUnlock()

	if owner == nil {
		return nil, custom_err.Ledger(custom_err.ErrOwnerNotEstablished)
	}
	if fromBalance < debit {
		return nil, custom_err.Ledger(fmt.Errorf("%w: %s balance %v, need %v",
			custom_err.ErrInsufficientFunds, from, fromBalance, debit))
	}

	changed := models.Balances{
		from: fromBalance - debit,
		to:   toBalance + credit,
	}
	operation := models.ExchangeOperation{
		ID:              uuid.New(),
		OwnerID:         owner.ID,
		FromCurrency:    from,
		ToCurrency:      to,
		Amount:          debit,
		ExchangedAmount: credit,
		CreatedAt:       l.now(),
	}

	if err := l.store.SaveExchange(ctx, operation, changed); err != nil {
		l.log.Error("обмен не сохранён, балансы не изменены",
			slog.String("operation_id", operation.ID.String()),
			slog.String("error", err.Error()))
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}

	l.mu.Lock()
	next := l.balances.Clone()
	next[from] = changed[from]
	next[to] = changed[to]
	l.balances = next
	l.mu.Unlock()
	l.committed(next)

	return &AppliedExchange{
		Operation: operation,
		Balances:  next.Clone(),
	}, nil
}

// RecentExchanges возвращает последние записи журнала обменов, новые первыми
func (l *BalanceLedger) RecentExchanges(ctx context.Context, limit int) ([]models.ExchangeOperation, error) {
	const op = "service.BalanceLedger.RecentExchanges"

	owner := l.Owner()
	if owner == nil {
		return nil, custom_err.Ledger(custom_err.ErrOwnerNotEstablished)
	}
	if limit <= 0 {
		limit = 20
	}

	ops, err := l.store.RecentExchanges(ctx, owner.ID, limit)
	if err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	return ops, nil
}

func parseInitialBalances(initial map[string]float64) (models.Balances, error) {
	balances := make(models.Balances, len(initial))
	for code, amount := range initial {
		c := models.ParseCurrency(code)
		if c.IsEmpty() {
			return nil, custom_err.Validation(custom_err.ErrEmptyCurrency)
		}
		if !c.IsValid() {
			return nil, custom_err.Validation(fmt.Errorf("%w: %q", custom_err.ErrInvalidCurrency, code))
		}
		if !validAmount(amount) {
			return nil, custom_err.Validation(fmt.Errorf("%w: %s=%v", custom_err.ErrInvalidAmount, c, amount))
		}
		balances[c] = amount
	}
	return balances, nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
