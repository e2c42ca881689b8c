package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string          `json:"date"`
	BusinessID int64           `json:"businessId"`
	ServiceID  *int64          `json:"serviceId,omitempty"`
	Slots      []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	ID              int64   `json:"id"`
	ServiceID       int64   `json:"serviceId"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalSpots      int     `json:"totalSpots"`     // 0 - без ограничения
	AvailableSpots  int     `json:"availableSpots"` // -1 - без ограничения
	ActiveCount     int     `json:"activeCount"`
	OccupiedCount   int     `json:"occupiedCount"`
	OccupancyRate   float64 `json:"occupancyRate"`
	IsAvailable     bool    `json:"isAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:              slot.ID,
			ServiceID:       slot.ServiceID,
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			TotalSpots:      slot.TotalSpots,
			AvailableSpots:  slot.AvailableSpots,
			ActiveCount:     slot.ActiveCount,
			OccupiedCount:   slot.OccupiedCount,
			OccupancyRate:   slot.OccupancyRate,
			IsAvailable:     slot.IsAvailable,
		}
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Slots:      slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(businessID int64, serviceID *int64, dateStr string, includeUnavailable bool) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BusinessID:         businessID,
		ServiceID:          serviceID,
		Date:               date,
		IncludeUnavailable: includeUnavailable,
	}, nil
}
