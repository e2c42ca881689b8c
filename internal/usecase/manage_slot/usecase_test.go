package manage_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/locker"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/internal/service/slotguard"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/retry"
)

const businessID = int64(10)

var (
	now       = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	store *memory.Store
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	guard := slotguard.New(
		locker.NewMemoryLocker(time.Second),
		store,
		retry.Policy{MaxRetries: 1, InitialDelay: time.Millisecond},
		(*metrics.Metrics)(nil),
		logger.Nop(),
	)
	return &fixture{
		store: store,
		uc:    NewUseCase(store.Slots(), store.Reservations(), guard, logger.Nop()).WithTimeProvider(fixedTime{now}),
	}
}

func (f *fixture) addSlot(t *testing.T, date time.Time, capacity int, available bool) *domain.Slot {
	t.Helper()
	slot := &domain.Slot{BusinessID: businessID, ServiceID: 5, Date: date, StartTime: "10:00", EndTime: "11:00", Capacity: capacity, IsAvailable: available}
	_, err := f.store.Slots().CreateIfNotExists(context.Background(), slot)
	require.NoError(t, err)
	return slot
}

func (f *fixture) addReservation(t *testing.T, slot *domain.Slot, status domain.ReservationStatus) {
	t.Helper()
	_, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		CustomerID: 100, BusinessID: businessID, ServiceID: 5, SlotID: ptr.Ptr(slot.ID),
		ReservationDate: slot.Date, ReservationTime: slot.StartTime, ReservationDuration: 60, Status: status,
	})
	require.NoError(t, err)
}

func (f *fixture) slot(t *testing.T, id int64) *domain.Slot {
	t.Helper()
	s, err := f.store.Slots().GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestUseCase_Delete(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 1, true)

		resp, err := f.uc.Delete(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		require.NoError(t, err)
		assert.True(t, resp.Deleted)

		_, err = f.store.Slots().GetByID(context.Background(), slot.ID)
		assert.ErrorIs(t, err, slotRepo.ErrSlotNotFound)
	})

	t.Run("ActiveReservations", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 2, true)
		f.addReservation(t, slot, domain.StatusConfirmed)

		_, err := f.uc.Delete(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		assert.ErrorIs(t, err, domain.ErrSlotHasActiveReservations)
		assert.NotErrorIs(t, err, ErrSlotHasHistory)
	})

	t.Run("History", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 2, true)
		f.addReservation(t, slot, domain.StatusCancelled)

		_, err := f.uc.Delete(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		assert.ErrorIs(t, err, ErrSlotHasHistory)
		f.slot(t, slot.ID)
	})

	t.Run("ForeignBusiness", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 1, true)

		_, err := f.uc.Delete(context.Background(), &Request{SlotID: slot.ID, BusinessID: 99})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestUseCase_Deactivate(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 1, true)

		resp, err := f.uc.Deactivate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		require.NoError(t, err)
		assert.False(t, resp.IsAvailable)
		assert.False(t, f.slot(t, slot.ID).IsAvailable)
	})

	t.Run("ActiveReservations", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 2, true)
		f.addReservation(t, slot, domain.StatusPending)

		_, err := f.uc.Deactivate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		assert.ErrorIs(t, err, domain.ErrSlotHasActiveReservations)
		assert.True(t, f.slot(t, slot.ID).IsAvailable)
	})
}

func TestUseCase_Activate(t *testing.T) {
	t.Run("Reopens", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 2, false)
		f.addReservation(t, slot, domain.StatusPending)

		resp, err := f.uc.Activate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		require.NoError(t, err)
		assert.True(t, resp.IsAvailable)
		assert.True(t, f.slot(t, slot.ID).IsAvailable)
	})

	t.Run("Full", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, 1, false)
		f.addReservation(t, slot, domain.StatusConfirmed)

		_, err := f.uc.Activate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		assert.ErrorIs(t, err, domain.ErrSlotCapacityExceeded)
		assert.False(t, f.slot(t, slot.ID).IsAvailable)
	})

	t.Run("Started", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday.AddDate(0, 0, -7), 1, false)

		_, err := f.uc.Activate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	})

	t.Run("Unlimited", func(t *testing.T) {
		f := newFixture(t)
		slot := f.addSlot(t, wednesday, domain.UnlimitedCapacity, false)
		f.addReservation(t, slot, domain.StatusConfirmed)

		_, err := f.uc.Activate(context.Background(), &Request{SlotID: slot.ID, BusinessID: businessID})
		require.NoError(t, err)
	})
}
