package create_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", domain.ErrInvalidScheduleRequest)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", domain.ErrInvalidScheduleRequest)
	}

	if req.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d", domain.ErrInvalidScheduleRequest, req.IntervalMinutes)
	}

	if req.IntervalMinutes < domain.MinIntervalMinutes || req.IntervalMinutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("%w: interval must be between %d and %d minutes, got %d",
			domain.ErrInvalidScheduleRequest, domain.MinIntervalMinutes, domain.MaxIntervalMinutes, req.IntervalMinutes)
	}

	if req.Capacity != nil && (*req.Capacity < 0 || *req.Capacity > domain.MaxSlotCapacity) {
		return fmt.Errorf("%w: capacity must be between 0 and %d, got %d",
			domain.ErrInvalidScheduleRequest, domain.MaxSlotCapacity, *req.Capacity)
	}

	if len(req.Schedules) == 0 {
		return fmt.Errorf("%w: at least one schedule is required", domain.ErrInvalidScheduleRequest)
	}

	today := dateOnly(now)
	first, last := dateOnly(req.Schedules[0].Date), dateOnly(req.Schedules[0].Date)

	for i, s := range req.Schedules {
		if s.Date.IsZero() {
			return fmt.Errorf("%w: schedule %d has no date", domain.ErrInvalidScheduleRequest, i)
		}

		date := dateOnly(s.Date)
		if date.Before(today) {
			return fmt.Errorf("%w: date %s is in the past", domain.ErrInvalidScheduleRequest, date.Format(domain.DateFormat))
		}
		if date.Before(first) {
			first = date
		}
		if date.After(last) {
			last = date
		}

		for j, r := range s.TimeRanges {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("schedule %s range %d: %w", date.Format(domain.DateFormat), j, err)
			}
		}
	}

	if days := int(last.Sub(first).Hours()/24) + 1; days > domain.MaxGenerationRangeDays {
		return fmt.Errorf("%w: date range spans %d days, max %d",
			domain.ErrInvalidScheduleRequest, days, domain.MaxGenerationRangeDays)
	}

	return nil
}

// validateService проверяет, что для услуги можно генерировать слоты с таким интервалом
func validateService(service *domain.Service, req *Request) error {
	if service.BusinessID != req.BusinessID {
		return fmt.Errorf("%w: service id=%d belongs to business id=%d",
			ErrServiceNotFound, service.ID, service.BusinessID)
	}

	if !service.SupportsSlots() {
		return fmt.Errorf("%w: service id=%d", ErrServiceNotSlotBased, service.ID)
	}

	if req.IntervalMinutes < service.DurationMinutes {
		return fmt.Errorf("%w: interval %d is shorter than service duration %d",
			domain.ErrInvalidScheduleRequest, req.IntervalMinutes, service.DurationMinutes)
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
