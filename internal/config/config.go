package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	RatesSourceHTTP = "http"
	RatesSourceGRPC = "grpc"
)

type Config struct {
	HTTPPort        string        `envconfig:"APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFile         string        `envconfig:"LOG_FILE" default:""`
	MigrationsPath  string        `envconfig:"MIGRATIONS_PATH" default:"migrations"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	DB              DBConfig
	Rates           RatesConfig
	Owner           OwnerConfig
	Kafka           KafkaConfig
	Redis           RedisConfig
}

type DBConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"     required:"true"`
	Port     string `envconfig:"POSTGRES_PORT"     required:"true"`
	User     string `envconfig:"POSTGRES_USER"     required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName   string `envconfig:"POSTGRES_DB"       required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE"  default:"disable"`
}

type RatesConfig struct {
	Source          string        `envconfig:"RATES_SOURCE" default:"http"`
	URL             string        `envconfig:"RATES_URL" default:"http://localhost:8081/currency-exchange-rates"`
	GRPCAddr        string        `envconfig:"RATES_GRPC_ADDR" default:"localhost:50051"`
	Timeout         time.Duration `envconfig:"RATES_TIMEOUT" default:"5s"`
	FreshnessWindow time.Duration `envconfig:"RATES_FRESHNESS_WINDOW" default:"30m"`
	RefreshInterval time.Duration `envconfig:"RATES_REFRESH_INTERVAL" default:"5s"`
	Pivot           string        `envconfig:"RATES_PIVOT" default:"EUR"`
	UnknownAsPivot  bool          `envconfig:"RATES_UNKNOWN_AS_PIVOT" default:"false"`
}

// OwnerConfig владелец, с которым сервис стартует. Пустой OWNER_ID означает
// создание нового владельца с начальными балансами.
type OwnerConfig struct {
	ID              string             `envconfig:"OWNER_ID" default:""`
	FirstName       string             `envconfig:"OWNER_FIRST_NAME" default:"Juan"`
	LastName        string             `envconfig:"OWNER_LAST_NAME" default:"Dela Cruz"`
	InitialBalances map[string]float64 `envconfig:"OWNER_INITIAL_BALANCES" default:"EUR:1000,USD:0,PHP:0"`
}

type KafkaConfig struct {
	Brokers   []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic     string   `envconfig:"KAFKA_TOPIC" default:"large-exchanges"`
	Enabled   bool     `envconfig:"KAFKA_ENABLED" default:"false"`
	Threshold float64  `envconfig:"KAFKA_LARGE_EXCHANGE_THRESHOLD" default:"30000"`
	Workers   int      `envconfig:"KAFKA_WORKERS" default:"5"`
	QueueSize int      `envconfig:"KAFKA_QUEUE_SIZE" default:"100"`
}

type RedisConfig struct {
	Enabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"REDIS_SNAPSHOT_TTL" default:"24h"`
}

func NewConfig() (*Config, error) {
	envFile := "config.env"

	if err := godotenv.Load(envFile); err != nil {
		log.Printf("warning: не удалось загрузить файл %s, используются только системные переменные окружения: %v", envFile, err)
	}

	return Load()
}

// Load читает конфигурацию только из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Rates.Source) {
	case RatesSourceHTTP:
		if c.Rates.URL == "" {
			errs = append(errs, errors.New("RATES_URL is required for http source"))
		}
	case RatesSourceGRPC:
		if c.Rates.GRPCAddr == "" {
			errs = append(errs, errors.New("RATES_GRPC_ADDR is required for grpc source"))
		}
	default:
		errs = append(errs, fmt.Errorf("RATES_SOURCE must be %q or %q, got %q", RatesSourceHTTP, RatesSourceGRPC, c.Rates.Source))
	}

	if c.Rates.FreshnessWindow <= 0 {
		errs = append(errs, errors.New("RATES_FRESHNESS_WINDOW must be positive"))
	}
	if c.Rates.RefreshInterval <= 0 {
		errs = append(errs, errors.New("RATES_REFRESH_INTERVAL must be positive"))
	}
	if c.Rates.Timeout <= 0 {
		errs = append(errs, errors.New("RATES_TIMEOUT must be positive"))
	}
	if strings.TrimSpace(c.Rates.Pivot) == "" {
		errs = append(errs, errors.New("RATES_PIVOT is required"))
	}

	if c.Owner.ID != "" {
		if _, err := uuid.Parse(c.Owner.ID); err != nil {
			errs = append(errs, fmt.Errorf("OWNER_ID is not a valid uuid: %w", err))
		}
	}
	for code, amount := range c.Owner.InitialBalances {
		if strings.TrimSpace(code) == "" || amount < 0 {
			errs = append(errs, fmt.Errorf("OWNER_INITIAL_BALANCES has invalid entry %q=%v", code, amount))
		}
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when kafka is enabled"))
	}
	if c.Kafka.Threshold < 0 {
		errs = append(errs, errors.New("KAFKA_LARGE_EXCHANGE_THRESHOLD must not be negative"))
	}

	return errors.Join(errs...)
}

func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (d *DBConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}
