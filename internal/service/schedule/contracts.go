package schedule

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// OperatingHoursRepository интерфейс репозитория рабочих окон
type OperatingHoursRepository interface {
	GetByBusiness(ctx context.Context, businessID int64) ([]domain.OperatingWindow, error)
	ReplaceForBusiness(ctx context.Context, businessID int64, windows []domain.OperatingWindow) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
