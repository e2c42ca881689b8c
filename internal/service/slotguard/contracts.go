package slotguard

import "context"

// Locker взаимное исключение по ключу
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет времени ожидания блокировки
type Metrics interface {
	ObserveLockWait(seconds float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
