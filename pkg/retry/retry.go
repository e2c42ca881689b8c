package retry

import (
	"context"
	"math"
	"time"
)

// Policy параметры экспоненциальной задержки между попытками
type Policy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay задержка перед попыткой attempt (нумерация с 1), ограниченная MaxDelay
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = 10 * time.Millisecond
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 2
	}

	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if d <= 0 {
		d = p.InitialDelay
	}
	return d
}

// Wait ждет задержку попытки attempt или отмены ctx
func (p Policy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.NextDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do вызывает fn, повторяя до MaxRetries раз, пока retryable(err) истинно
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	for attempt := 1; attempt <= p.MaxRetries && err != nil && retryable(err); attempt++ {
		if waitErr := p.Wait(ctx, attempt); waitErr != nil {
			return err
		}
		err = fn(ctx)
	}
	return err
}
