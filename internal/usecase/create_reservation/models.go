package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
// Для услуги со слотами указывается SlotID, для услуги по запросу - Date и StartTime
type Request struct {
	CustomerID int64            // ID клиента
	ServiceID  int64            // ID услуги
	SlotID     *int64           // ID слота (только для услуг со слотами)
	Date       time.Time        // Дата (только для услуг по запросу)
	StartTime  types.TimeString // Время начала (только для услуг по запросу)

	CustomerName  *string // Имя клиента (опционально)
	CustomerPhone *string // Телефон клиента (опционально)
	RequestNotes  *string // Пожелания (опционально)
}

// Config параметры бронирования
type Config struct {
	LeadDays int // Максимум дней вперед, 0 - без ограничения
}
