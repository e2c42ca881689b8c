package locker

import (
	"context"
	"fmt"
)

// Locker взаимное исключение по ключу
// Acquire блокирует до захвата, отмены ctx или истечения времени ожидания.
// Возвращаемый release идемпотентен
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// SlotKey ключ блокировки слота
func SlotKey(slotID int64) string {
	return fmt.Sprintf("slot:%d", slotID)
}
