package slotguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/infra/locker"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/retry"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

var once = retry.Policy{MaxRetries: 1, InitialDelay: time.Millisecond}

func TestGuard_WithSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("RetriesConflictOnce", func(t *testing.T) {
		store := memory.NewStore()
		store.InjectConflicts(1)
		g := New(locker.NewMemoryLocker(time.Second), store, once, (*metrics.Metrics)(nil), logger.Nop())

		calls := 0
		err := g.WithSlot(ctx, 1, func(context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("ConflictPersists", func(t *testing.T) {
		store := memory.NewStore()
		store.InjectConflicts(5)
		g := New(locker.NewMemoryLocker(time.Second), store, once, (*metrics.Metrics)(nil), logger.Nop())

		err := g.WithSlot(ctx, 1, func(context.Context) error { return nil })
		assert.True(t, txmanager.IsTransient(err))
	})

	t.Run("BusinessErrorNotRetried", func(t *testing.T) {
		store := memory.NewStore()
		g := New(locker.NewMemoryLocker(time.Second), store, once, (*metrics.Metrics)(nil), logger.Nop())
		boom := errors.New("boom")

		calls := 0
		err := g.WithSlot(ctx, 1, func(context.Context) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("SlotBusy", func(t *testing.T) {
		store := memory.NewStore()
		l := locker.NewMemoryLocker(20 * time.Millisecond)
		g := New(l, store, once, (*metrics.Metrics)(nil), logger.Nop())

		release, err := l.Acquire(ctx, locker.SlotKey(7))
		require.NoError(t, err)
		defer release()

		err = g.WithSlot(ctx, 7, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrSlotBusy)
	})
}
