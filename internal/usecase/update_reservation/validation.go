package update_reservation

import (
	"fmt"
	"time"

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

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", domain.ErrInvalidReservationRequest, err)
		}
	}

	if !req.HasReschedule() && req.CustomerName == nil && req.CustomerPhone == nil && req.RequestNotes == nil {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidReservationRequest)
	}

	if err := validateLength("customerName", req.CustomerName, domain.MaxCustomerNameLength); err != nil {
		return err
	}
	if err := validateLength("customerPhone", req.CustomerPhone, domain.MaxCustomerPhoneLength); err != nil {
		return err
	}
	return validateLength("requestNotes", req.RequestNotes, domain.MaxNotesLength)
}

func validateLength(field string, value *string, max int) error {
	if value != nil && len([]rune(*value)) > max {
		return fmt.Errorf("%w: %s is longer than %d characters", domain.ErrInvalidReservationRequest, field, max)
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
