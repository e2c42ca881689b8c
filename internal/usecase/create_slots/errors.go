package create_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_slots: service not found")

	// ErrServiceNotSlotBased возвращается, когда для услуги не предусмотрены слоты
	ErrServiceNotSlotBased = fmt.Errorf("%w: service is not slot-based", domain.ErrInvalidScheduleRequest)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_slots: internal error")
)
