package cancel_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", domain.ErrInvalidReservationRequest)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", domain.ErrInvalidReservationRequest)
	}

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", domain.ErrInvalidReservationRequest, domain.MaxCancellationReasonLength)
	}

	return nil
}
