package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"currency-exchanger/internal/api/handlers"
	"currency-exchanger/internal/api/middlew"
	"currency-exchanger/internal/config"
	"currency-exchanger/internal/db"
	"currency-exchanger/internal/grpc_client"
	"currency-exchanger/internal/http_client"
	"currency-exchanger/internal/kafka"
	"currency-exchanger/internal/metrics"
	"currency-exchanger/internal/models"
	"currency-exchanger/internal/server"
	"currency-exchanger/internal/service"
	"currency-exchanger/internal/storage/postgres"
	redisstore "currency-exchanger/internal/storage/redis"
	"currency-exchanger/pkg/logger"
)

type App struct {
	log           *slog.Logger
	logger        *logger.LoggerWithFile
	server        *server.Server
	pool          *pgxpool.Pool
	cfg           *config.Config
	registry      *prometheus.Registry
	metrics       *metrics.ExchangerMetrics
	rateSource    service.RateSource
	rateCloser    func() error
	redisClient   *goredis.Client
	kafkaProducer kafka.Producer
	controller    *service.ExchangeController
	cancel        context.CancelFunc
}

func NewApp() (*App, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}

	loggerWithFile, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	log := loggerWithFile.Logger
	log.Info("инициализация приложения",
		slog.String("port", cfg.HTTPPort),
		slog.String("rates_source", cfg.Rates.Source))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), cfg.MigrationsPath, log); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	pool, err := db.NewPool(context.Background(), cfg.DB.DSN(), db.DefaultPoolConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{
		log:      log,
		logger:   loggerWithFile,
		pool:     pool,
		cfg:      cfg,
		registry: registry,
		metrics:  metrics.New(registry),
	}

	if err := a.initRateSource(); err != nil {
		pool.Close()
		return nil, err
	}
	if err := a.initRedis(); err != nil {
		pool.Close()
		return nil, err
	}
	if err := a.initKafka(); err != nil {
		pool.Close()
		return nil, err
	}

	srv := server.NewServer(cfg.HTTPPort)
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()
	srv.RegisterMetrics(registry)
	srv.RegisterHealth()
	a.server = srv
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))

	return a, nil
}

func (a *App) initRateSource() error {
	var source service.RateSource

	switch strings.ToLower(a.cfg.Rates.Source) {
	case config.RatesSourceGRPC:
		a.log.Info("подключение к gRPC источнику курсов", slog.String("addr", a.cfg.Rates.GRPCAddr))
		client, err := grpc_client.NewExchangerClient(a.cfg.Rates.GRPCAddr, a.cfg.Rates.Timeout, a.log)
		if err != nil {
			return fmt.Errorf("ошибка подключения к exchanger gRPC: %w", err)
		}
		source = client
		a.rateCloser = client.Close
	default:
		a.log.Info("используется HTTP источник курсов", slog.String("url", a.cfg.Rates.URL))
		source = http_client.NewRatesClient(a.cfg.Rates.URL, a.cfg.Rates.Timeout, a.log)
	}

	a.rateSource = service.NewLoggingRateSource(a.log, source)
	return nil
}

func (a *App) initRedis() error {
	if !a.cfg.Redis.Enabled {
		a.log.Info("redis отключен в конфигурации")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Rates.Timeout)
	defer cancel()

	client, err := redisstore.InitClient(ctx, &goredis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("ошибка подключения к redis: %w", err)
	}
	a.redisClient = client
	a.log.Info("redis подключен", slog.String("addr", a.cfg.Redis.Addr))
	return nil
}

func (a *App) initKafka() error {
	if !a.cfg.Kafka.Enabled {
		a.log.Info("kafka отключен в конфигурации")
		a.kafkaProducer = kafka.NewNoOpProducer(a.log)
		return nil
	}

	a.log.Info("инициализация kafka producer", slog.Any("brokers", a.cfg.Kafka.Brokers))
	producer, err := kafka.NewKafkaProducer(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, a.log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации kafka: %w", err)
	}
	a.kafkaProducer = producer
	return nil
}

// BuildExchangeLayer собирает кэш курсов, книгу балансов и контроллер,
// поднимает владельца и регистрирует маршруты API
func (a *App) BuildExchangeLayer(ctx context.Context) error {
	if a.rateSource == nil {
		err := errors.New("rateSource not initialized")
		a.log.Error(err.Error())
		return err
	}

	txManager := service.NewPgxTxManager(a.pool, a.log)
	store := service.NewPostgresLedgerStore(
		postgres.NewOwnerRepository(a.pool),
		postgres.NewBalanceRepository(a.pool),
		txManager,
	)
	ledger := service.NewBalanceLedger(store, a.log)

	cacheOpts := []service.RateCacheOption{
		service.WithRateMetrics(a.metrics),
		service.WithFetchTimeout(a.cfg.Rates.Timeout),
	}
	if a.redisClient != nil {
		cacheOpts = append(cacheOpts, service.WithSnapshotStore(
			redisstore.NewRateSnapshotStore(a.redisClient, a.cfg.Redis.TTL, a.log)))
	}
	cache := service.NewRateCache(
		a.rateSource,
		models.ParseCurrency(a.cfg.Rates.Pivot),
		a.cfg.Rates.FreshnessWindow,
		a.log,
		cacheOpts...,
	)
	if err := cache.Warm(ctx); err != nil {
		a.log.Warn("не удалось загрузить снимок курсов", slog.String("error", err.Error()))
	}

	a.controller = service.NewExchangeController(
		cache,
		service.NewConverter(a.cfg.Rates.UnknownAsPivot),
		ledger,
		a.kafkaProducer,
		a.metrics,
		service.ControllerConfig{
			RefreshInterval:        a.cfg.Rates.RefreshInterval,
			LargeExchangeThreshold: a.cfg.Kafka.Threshold,
			EventWorkers:           a.cfg.Kafka.Workers,
			EventQueueSize:         a.cfg.Kafka.QueueSize,
		},
		a.log,
	)

	ownerID := uuid.Nil
	if a.cfg.Owner.ID != "" {
		ownerID = uuid.MustParse(a.cfg.Owner.ID)
	}
	owner, err := a.controller.ResumeOwner(ctx, ownerID, a.cfg.Owner.FirstName, a.cfg.Owner.LastName, a.cfg.Owner.InitialBalances)
	if err != nil {
		return fmt.Errorf("не удалось установить владельца: %w", err)
	}
	if ownerID == uuid.Nil {
		a.log.Warn("OWNER_ID не задан, создан новый владелец; укажите его id, чтобы продолжить работу после перезапуска",
			slog.String("owner_id", owner.ID.String()))
	}

	a.server.Router.Route("/api/v1", func(r chi.Router) {
		handlers.Register(r, a.controller)
	})

	a.log.Info("слой 'exchange' собран и маршруты зарегистрированы",
		slog.String("owner_id", owner.ID.String()))
	return nil
}

func (a *App) Run() error {
	if a.controller == nil {
		return errors.New("exchange layer not built, call BuildExchangeLayer first")
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.controller.Start(loopCtx)

	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case runErr = <-serverErr:
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.cancel != nil {
		a.cancel()
	}
	a.log.Info("остановка exchange controller")
	if err := a.controller.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке exchange controller", slog.String("error", err.Error()))
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	if a.rateCloser != nil {
		if err := a.rateCloser(); err != nil {
			a.log.Error("ошибка при закрытии источника курсов", slog.String("error", err.Error()))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("ошибка при закрытии redis", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("приложение остановлено")
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "ошибка при закрытии файла логов: %v\n", err)
	}
}
