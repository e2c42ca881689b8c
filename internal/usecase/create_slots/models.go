package create_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модель запроса на пакетную генерацию слотов
type Request struct {
	BusinessID      int64      // ID бизнеса
	ServiceID       int64      // ID услуги
	IntervalMinutes int        // Длина слота в минутах
	Capacity        *int       // Емкость слота, nil - DefaultSlotCapacity, 0 - без ограничений
	Schedules       []Schedule // Даты и диапазоны времени
}

// Schedule дата и диапазоны времени на эту дату
// Пустой TimeRanges означает "весь рабочий день"
type Schedule struct {
	Date       time.Time
	TimeRanges []domain.TimeRange
}

// Response сводка пакетной генерации
type Response struct {
	Requested    int         // Кандидаты, прошедшие проверку рабочих окон
	Created      int         // Новые слоты
	Skipped      int         // Дубликаты уже сохраненных слотов плюс даты без открытых окон
	Failed       int         // Кандидаты, которые не удалось сохранить
	Rejected     int         // Кандидаты, попавшие на перерыв или вне окон
	SkippedDates []time.Time // Даты без открытых окон
}
