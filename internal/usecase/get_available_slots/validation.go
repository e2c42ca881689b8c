package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
// Прошедшие даты доступны только в режиме отчета (includeUnavailable)
func validateDate(requestDate time.Time, now time.Time, leadDays int, includeUnavailable bool) error {
	if !includeUnavailable && dateOnly(requestDate).Before(dateOnly(now)) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, requestDate.Format(domain.DateFormat))
	}

	// Если leadDays = 0, нет ограничений на дату
	if leadDays <= 0 {
		return nil
	}

	maxDate := dateOnly(now).AddDate(0, 0, leadDays)
	if dateOnly(requestDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, leadDays)
	}

	return nil
}
