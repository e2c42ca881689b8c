package update_reservation_status

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено у бизнеса
	ErrReservationNotFound = errors.New("update_reservation_status: reservation not found")

	// ErrStatusNotAllowed возвращается для статусов, которые нельзя выставить этой операцией
	ErrStatusNotAllowed = fmt.Errorf("%w: status cannot be set by business", domain.ErrInvalidReservationRequest)

	// ErrSlotBusy возвращается, когда слот заблокирован другим запросом дольше допустимого
	ErrSlotBusy = errors.New("update_reservation_status: slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation_status: internal error")
)
