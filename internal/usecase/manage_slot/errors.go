package manage_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден у бизнеса
	ErrSlotNotFound = errors.New("manage_slot: slot not found")

	// ErrSlotHasHistory возвращается при удалении слота, на который ссылаются завершенные бронирования
	ErrSlotHasHistory = fmt.Errorf("%w: slot is referenced by past reservations, deactivate it instead", domain.ErrSlotHasActiveReservations)

	// ErrSlotBusy возвращается, когда слот заблокирован другим запросом дольше допустимого
	ErrSlotBusy = errors.New("manage_slot: slot is busy, try again")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("manage_slot: internal error")
)
