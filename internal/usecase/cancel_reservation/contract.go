package cancel_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, reservation *domain.Reservation) error
	CountBySlot(ctx context.Context, slotID int64, statuses []domain.ReservationStatus) (int, error)
}

// SlotGuard атомарное изменение емкости слота
type SlotGuard interface {
	WithSlot(ctx context.Context, slotID int64, fn func(ctx context.Context) error) error
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикация доменных событий
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Metrics учет результатов бронирования
type Metrics interface {
	ObserveReservation(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
