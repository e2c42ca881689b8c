package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение слотов на дату
type Request struct {
	BusinessID         int64     // ID бизнеса
	ServiceID          *int64    // ID услуги (опционально, без него - все услуги бизнеса)
	Date               time.Time // Дата (без времени)
	IncludeUnavailable bool      // Включить заполненные, деактивированные и начавшиеся слоты
}

// Config параметры выдачи слотов
type Config struct {
	LeadDays int // Максимум дней вперед, 0 - без ограничения
}

// Response модель ответа со списком слотов
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	BusinessID int64     // ID бизнеса
	ServiceID  *int64    // ID услуги
	Slots      []Slot    // Список слотов
}

// Slot модель слота с текущей занятостью
type Slot struct {
	ID              int64
	ServiceID       int64
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время окончания слота
	DurationMinutes int              // Длительность слота в минутах
	TotalSpots      int              // Емкость, 0 - без ограничения
	AvailableSpots  int              // Свободные места, -1 - без ограничения
	ActiveCount     int              // PENDING + CONFIRMED
	OccupiedCount   int              // Занятость для отчетов, включая COMPLETED
	OccupancyRate   float64          // Процент занятости 0-100
	IsAvailable     bool             // Можно ли забронировать прямо сейчас
}
