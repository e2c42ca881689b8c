package slotguard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/infra/locker"
	"github.com/m04kA/SMC-ReservationService/pkg/retry"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

// Guard выполняет изменение емкости слота атомарно:
// блокировка слота -> SERIALIZABLE транзакция -> фиксация -> снятие блокировки.
// Транзакция, отмененная из-за конфликта, повторяется по policy
type Guard struct {
	locker  Locker
	tx      TransactionManager
	policy  retry.Policy
	metrics Metrics
	logger  Logger
}

// New создает Guard
func New(l Locker, tx TransactionManager, policy retry.Policy, metrics Metrics, logger Logger) *Guard {
	return &Guard{
		locker:  l,
		tx:      tx,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// WithSlot выполняет fn в транзакции под блокировкой слота slotID
// Если все попытки завершились конфликтом, возвращается ошибка, для которой txmanager.IsTransient истинно
func (g *Guard) WithSlot(ctx context.Context, slotID int64, fn func(ctx context.Context) error) error {
	start := time.Now()
	release, err := g.locker.Acquire(ctx, locker.SlotKey(slotID))
	g.metrics.ObserveLockWait(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, locker.ErrLockTimeout):
			g.logger.Warn("slotguard: slot id=%d is busy: %v", slotID, err)
			return fmt.Errorf("%w: slot id=%d", ErrSlotBusy, slotID)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			g.logger.Error("slotguard: failed to lock slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: slot id=%d: %v", ErrLockFailed, slotID, err)
		}
	}
	defer release()

	return g.Run(ctx, fn)
}

// Run выполняет fn в SERIALIZABLE транзакции с повтором при конфликте, без блокировки слота
func (g *Guard) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	attempt := 0
	return g.policy.Do(ctx, txmanager.IsTransient, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			g.logger.Warn("slotguard: retrying transaction after conflict, attempt %d", attempt)
		}
		return g.tx.DoSerializable(ctx, fn)
	})
}
