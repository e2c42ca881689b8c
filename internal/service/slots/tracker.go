package slots

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Tracker решает, может ли слот принять бронирование, и управляет флагом доступности
// Вызывается только внутри блокировки слота и транзакции, в которой посчитан activeCount
type Tracker struct{}

// NewTracker создает трекер доступности слотов
func NewTracker() *Tracker {
	return &Tracker{}
}

// CanAccept проверяет наличие свободной емкости
func (t *Tracker) CanAccept(slot *domain.Slot, activeCount int) bool {
	if slot.IsUnlimited() {
		return true
	}
	return activeCount < slot.Capacity
}

// IsFullAfter проверяет, будет ли слот заполнен после добавления одного бронирования
func (t *Tracker) IsFullAfter(slot *domain.Slot, activeCount int) bool {
	if slot.IsUnlimited() {
		return false
	}
	return activeCount+1 >= slot.Capacity
}

// MarkFull безусловно снимает слот с продажи
func (t *Tracker) MarkFull(slot *domain.Slot) {
	slot.IsAvailable = false
}

// Reopen возвращает слот в продажу после отмены или неявки
// activeCount должен быть пересчитан после перехода статуса. Возвращает true, если флаг изменился
func (t *Tracker) Reopen(slot *domain.Slot, activeCount int) bool {
	if slot.IsAvailable {
		return false
	}
	if !t.CanAccept(slot, activeCount) {
		return false
	}
	slot.IsAvailable = true
	return true
}
