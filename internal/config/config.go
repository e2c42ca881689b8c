package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockDriverRedis  = "redis"
	LockDriverMemory = "memory"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Storage             StorageConfig             `toml:"storage"`
	Redis               RedisConfig               `toml:"redis"`
	Lock                LockConfig                `toml:"lock"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	MenuService         ServiceClientConfig       `toml:"menu_service"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	Booking             BookingConfig             `toml:"booking"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// RedisConfig параметры подключения к Redis
type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	PoolSize int    `toml:"pool_size"`
}

// LockConfig параметры блокировок слотов, длительности в миллисекундах
type LockConfig struct {
	Driver        string `toml:"driver"`
	TTLMs         int    `toml:"ttl_ms"`
	WaitTimeoutMs int    `toml:"wait_timeout_ms"`
	PollMs        int    `toml:"poll_ms"`
}

func (l LockConfig) TTL() time.Duration         { return time.Duration(l.TTLMs) * time.Millisecond }
func (l LockConfig) WaitTimeout() time.Duration { return time.Duration(l.WaitTimeoutMs) * time.Millisecond }
func (l LockConfig) PollInterval() time.Duration {
	return time.Duration(l.PollMs) * time.Millisecond
}

// LogsConfig параметры логирования, пустой file пишет в stdout
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceClientConfig параметры внешнего HTTP сервиса, timeout в секундах
type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// NotificationServiceConfig параметры доставки событий, пустой url отключает доставку
type NotificationServiceConfig struct {
	URL            string `toml:"url"`
	Timeout        int    `toml:"timeout"`
	MaxRetries     int    `toml:"max_retries"`
	InitialDelayMs int    `toml:"initial_delay_ms"`
}

// BookingConfig параметры бронирования
type BookingConfig struct {
	LeadDays int           `toml:"lead_days"` // 0 - без ограничения
	Horizon  HorizonConfig `toml:"horizon"`
}

// HorizonConfig фоновая генерация слотов на N дней вперед
type HorizonConfig struct {
	Enabled   bool            `toml:"enabled"`
	Cron      string          `toml:"cron"`
	DaysAhead int             `toml:"days_ahead"`
	Targets   []HorizonTarget `toml:"targets"`
}

// HorizonTarget услуга, для которой поддерживается горизонт слотов
type HorizonTarget struct {
	BusinessID      int64 `toml:"business_id"`
	ServiceID       int64 `toml:"service_id"`
	IntervalMinutes int   `toml:"interval_minutes"`
	Capacity        *int  `toml:"capacity"`
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Redis:   RedisConfig{Address: "localhost:6379", PoolSize: 10},
		Lock: LockConfig{
			Driver:        LockDriverRedis,
			TTLMs:         10000,
			WaitTimeoutMs: 5000,
			PollMs:        20,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "reservation-service",
		},
		MenuService: ServiceClientConfig{Timeout: 5},
		NotificationService: NotificationServiceConfig{
			Timeout:        5,
			MaxRetries:     3,
			InitialDelayMs: 200,
		},
		Booking: BookingConfig{
			LeadDays: 30,
			Horizon: HorizonConfig{
				Cron:      "0 3 * * *",
				DaysAhead: 14,
			},
		},
	}
}

// Load читает конфигурацию из TOML файла
// Переменные ${VAR} раскрываются из окружения, .env подгружается при наличии
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(string(data))
}

// Parse разбирает TOML поверх значений по умолчанию
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(os.ExpandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределения из окружения для запуска в контейнере
func (c *Config) applyEnv() {
	if v, ok := envInt("HTTP_PORT"); ok {
		c.Server.HTTPPort = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			problems = append(problems, "database.host and database.dbname are required for postgres storage")
		}
	case StorageDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.driver %q", c.Storage.Driver))
	}

	switch c.Lock.Driver {
	case LockDriverRedis:
		if c.Redis.Address == "" {
			problems = append(problems, "redis.address is required for redis lock driver")
		}
	case LockDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown lock.driver %q", c.Lock.Driver))
	}

	if c.MenuService.URL == "" {
		problems = append(problems, "menu_service.url is required")
	}
	if c.Booking.LeadDays < 0 {
		problems = append(problems, "booking.lead_days must not be negative")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}

	if h := c.Booking.Horizon; h.Enabled {
		if h.Cron == "" {
			problems = append(problems, "booking.horizon.cron is required")
		}
		if h.DaysAhead <= 0 {
			problems = append(problems, "booking.horizon.days_ahead must be positive")
		}
		for i, t := range h.Targets {
			if t.BusinessID <= 0 || t.ServiceID <= 0 || t.IntervalMinutes <= 0 {
				problems = append(problems, fmt.Sprintf("booking.horizon.targets[%d]: business_id, service_id and interval_minutes must be positive", i))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
