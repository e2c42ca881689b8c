package manage_slot

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", domain.ErrInvalidScheduleRequest)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", domain.ErrInvalidScheduleRequest)
	}

	return nil
}
