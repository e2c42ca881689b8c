package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на изменение бронирования клиентом
// Заполненные поля заменяют текущие, пустые остаются без изменений
type Request struct {
	ReservationID int64
	CustomerID    int64

	Date      *time.Time        // Новая дата (только для бронирований по запросу)
	StartTime *types.TimeString // Новое время (только для бронирований по запросу)

	CustomerName  *string
	CustomerPhone *string
	RequestNotes  *string
}

// HasReschedule возвращает true, если запрос переносит бронирование
func (r *Request) HasReschedule() bool {
	return r.Date != nil || r.StartTime != nil
}

// Config параметры бронирования
type Config struct {
	LeadDays int // Горизонт бронирования в днях, 0 - без ограничения
}
