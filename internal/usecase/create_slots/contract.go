package create_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	CreateIfNotExists(ctx context.Context, slot *domain.Slot) (bool, error)
}

// OperatingHoursRepository источник рабочих окон бизнеса, только чтение
type OperatingHoursRepository interface {
	GetByBusinessAndDay(ctx context.Context, businessID int64, day domain.DayOfWeek) ([]domain.OperatingWindow, error)
}

// MenuServiceClient интерфейс клиента для MenuService
type MenuServiceClient interface {
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// Metrics учет результатов генерации
type Metrics interface {
	ObserveSlotGeneration(created, skipped int)
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
