package slotguard

import "errors"

var (
	// ErrSlotBusy блокировка слота не получена за отведенное время
	ErrSlotBusy = errors.New("slotguard: slot is busy")

	// ErrLockFailed ошибка хранилища блокировок
	ErrLockFailed = errors.New("slotguard: failed to acquire slot lock")
)
