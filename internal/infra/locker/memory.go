package locker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLocker блокировка в пределах одного процесса
// Каждому ключу соответствует канал емкости 1, записи удаляются после освобождения
type MemoryLocker struct {
	mu          sync.Mutex
	locks       map[string]*memoryLock
	waitTimeout time.Duration
}

type memoryLock struct {
	ch      chan struct{}
	holders int // захватившие и ожидающие
}

// NewMemoryLocker создает блокировщик, waitTimeout <= 0 означает ожидание до отмены ctx
func NewMemoryLocker(waitTimeout time.Duration) *MemoryLocker {
	return &MemoryLocker{
		locks:       make(map[string]*memoryLock),
		waitTimeout: waitTimeout,
	}
}

// Acquire захватывает блокировку key
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lock := l.ref(key)

	waitCtx := ctx
	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	select {
	case lock.ch <- struct{}{}:
	case <-waitCtx.Done():
		l.unref(key, lock)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: key=%s after %s", ErrLockTimeout, key, l.waitTimeout)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.unref(key, lock)
		})
	}, nil
}

func (l *MemoryLocker) ref(key string) *memoryLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &memoryLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.holders++
	return lock
}

func (l *MemoryLocker) unref(key string, lock *memoryLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.holders--
	if lock.holders == 0 {
		delete(l.locks, key)
	}
}

// size количество ключей с захватившими или ожидающими
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
