package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/config"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/locker"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	hoursRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/operating_hours"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// SlotStore все операции со слотами, которые нужны use cases
type SlotStore interface {
	CreateIfNotExists(ctx context.Context, slot *domain.Slot) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
	UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error
	Delete(ctx context.Context, id int64) error
}

// ReservationStore все операции с бронированиями
type ReservationStore interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	CountBySlot(ctx context.Context, slotID int64, statuses []domain.ReservationStatus) (int, error)
	CountBySlots(ctx context.Context, slotIDs []int64, statuses []domain.ReservationStatus) (map[int64]int, error)
	UpdateStatus(ctx context.Context, reservation *domain.Reservation) error
	Update(ctx context.Context, reservation *domain.Reservation) error
}

// OperatingHoursStore рабочие окна бизнеса
type OperatingHoursStore interface {
	GetByBusinessAndDay(ctx context.Context, businessID int64, day domain.DayOfWeek) ([]domain.OperatingWindow, error)
	GetByBusiness(ctx context.Context, businessID int64) ([]domain.OperatingWindow, error)
	ReplaceForBusiness(ctx context.Context, businessID int64, windows []domain.OperatingWindow) error
}

// TransactionManager транзакции: serializable для slotguard, обычные и read-only для сервисов
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage выбранный драйвер хранилища
type Storage struct {
	Slots          SlotStore
	Reservations   ReservationStore
	OperatingHours OperatingHoursStore
	Tx             TransactionManager

	close func() error
}

// Close освобождает соединения хранилища
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenDatabase подключается к postgres и настраивает пул соединений
func OpenDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewStorage создает хранилище по storage.driver
// С включенными метриками запросы postgres проходят через dbmetrics
func NewStorage(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		store := memory.NewStore()
		log.Warn("Using in-memory storage, data is lost on restart")
		return &Storage{
			Slots:          store.Slots(),
			Reservations:   store.Reservations(),
			OperatingHours: store.OperatingHours(),
			Tx:             store,
		}, nil
	}

	db, err := OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if m == nil {
		return &Storage{
			Slots:          slotRepo.NewRepository(db),
			Reservations:   reservationRepo.NewRepository(db),
			OperatingHours: hoursRepo.NewRepository(db),
			Tx:             txmanager.NewFromSQL(db, log),
			close:          db.Close,
		}, nil
	}

	stopCh := make(chan struct{})
	wrapped := dbmetrics.WrapWithDefault(db, m, m.ServiceName(), stopCh)
	log.Info("Database metrics collection started")

	return &Storage{
		Slots:          slotRepo.NewRepository(wrapped),
		Reservations:   reservationRepo.NewRepository(wrapped),
		OperatingHours: hoursRepo.NewRepository(wrapped),
		Tx:             txmanager.New(wrapped, log),
		close: func() error {
			close(stopCh)
			return db.Close()
		},
	}, nil
}

// NewLocker создает блокировщик слотов по lock.driver
func NewLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (locker.Locker, func() error, error) {
	if cfg.Lock.Driver == config.LockDriverMemory {
		log.Warn("Using in-process slot locks, run a single instance only")
		return locker.NewMemoryLocker(cfg.Lock.WaitTimeout()), func() error { return nil }, nil
	}

	redisCfg := locker.RedisConfig{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		TTL:          cfg.Lock.TTL(),
		WaitTimeout:  cfg.Lock.WaitTimeout(),
		PollInterval: cfg.Lock.PollInterval(),
	}

	client := locker.NewRedisClient(redisCfg)
	if err := locker.Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("Connected to Redis at %s", cfg.Redis.Address)

	return locker.NewRedisLocker(client, redisCfg, log), client.Close, nil
}
