package locker

import "errors"

var (
	// ErrLockTimeout не удалось захватить блокировку за отведенное время
	ErrLockTimeout = errors.New("infra.locker: lock wait timeout")

	// ErrLockBackend ошибка хранилища блокировок
	ErrLockBackend = errors.New("infra.locker: backend error")
)
