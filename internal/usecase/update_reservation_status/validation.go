package update_reservation_status

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Отмена выполняется отдельной операцией с проверкой дедлайна
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", domain.ErrInvalidReservationRequest)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", domain.ErrInvalidReservationRequest)
	}

	switch req.Status {
	case domain.StatusConfirmed, domain.StatusCompleted, domain.StatusNoShow:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrStatusNotAllowed, req.Status)
	}
}
