package menuservice

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Service модель услуги из MenuService
type Service struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"business_id"`
	Name            string  `json:"name"`
	IsSlotBased     bool    `json:"is_slot_based"`
	IsOnDemandBased bool    `json:"is_on_demand_based"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// ToDomain оставляет только поля, нужные для бронирования
func (s *Service) ToDomain() *domain.Service {
	return &domain.Service{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		IsSlotBased:     s.IsSlotBased,
		IsOnDemandBased: s.IsOnDemandBased,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}

// ErrorResponse модель ошибки от MenuService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
