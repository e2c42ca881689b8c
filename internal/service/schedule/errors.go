package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректном расписании
	ErrInvalidInput = fmt.Errorf("%w: invalid operating hours", domain.ErrInvalidScheduleRequest)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule.service: internal error")
)
