package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const businessID = int64(10)

var (
	now       = time.Date(2025, 10, 15, 11, 30, 0, 0, time.UTC)
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
	return &fixture{
		store: store,
		uc:    NewUseCase(store.Slots(), store.Reservations(), store, Config{LeadDays: 30}, logger.Nop()).WithTimeProvider(fixedTime{now}),
	}
}

func (f *fixture) addSlot(t *testing.T, date time.Time, start string, capacity int, available bool) *domain.Slot {
	t.Helper()
	startTime := types.MustTimeString(start)
	end, err := startTime.AddMinutes(60)
	require.NoError(t, err)

	slot := &domain.Slot{BusinessID: businessID, ServiceID: 5, Date: date, StartTime: startTime, EndTime: end, Capacity: capacity, IsAvailable: available}
	_, err = f.store.Slots().CreateIfNotExists(context.Background(), slot)
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

func TestUseCase_Execute_Bookable(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, wednesday, "10:00", 2, true) // уже начался
	free := f.addSlot(t, wednesday, "12:00", 3, true)
	full := f.addSlot(t, wednesday, "13:00", 1, false)
	f.addSlot(t, wednesday, "14:00", 1, false) // деактивирован
	unlimited := f.addSlot(t, wednesday, "15:00", domain.UnlimitedCapacity, true)

	f.addReservation(t, free, domain.StatusPending)
	f.addReservation(t, free, domain.StatusCancelled)
	f.addReservation(t, full, domain.StatusConfirmed)
	f.addReservation(t, unlimited, domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: businessID, Date: wednesday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 2)
	assert.Equal(t, free.ID, resp.Slots[0].ID)
	assert.Equal(t, 2, resp.Slots[0].AvailableSpots)
	assert.Equal(t, 1, resp.Slots[0].ActiveCount)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
	assert.True(t, resp.Slots[0].IsAvailable)

	assert.Equal(t, unlimited.ID, resp.Slots[1].ID)
	assert.Equal(t, -1, resp.Slots[1].AvailableSpots)
	assert.Equal(t, 0.0, resp.Slots[1].OccupancyRate)
}

func TestUseCase_Execute_Report(t *testing.T) {
	f := newFixture(t)
	full := f.addSlot(t, wednesday, "13:00", 2, false)
	f.addReservation(t, full, domain.StatusConfirmed)
	f.addReservation(t, full, domain.StatusCompleted)
	f.addReservation(t, full, domain.StatusNoShow)

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: businessID, Date: wednesday, IncludeUnavailable: true})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	slot := resp.Slots[0]
	assert.Equal(t, 1, slot.ActiveCount)
	assert.Equal(t, 2, slot.OccupiedCount, "completed counts while the slot date has not passed")
	assert.Equal(t, 100.0, slot.OccupancyRate)
	assert.False(t, slot.IsAvailable)
}

func TestUseCase_Execute_CompletedDroppedAfterDate(t *testing.T) {
	f := newFixture(t)
	yesterday := wednesday.AddDate(0, 0, -1)
	past := f.addSlot(t, yesterday, "13:00", 2, true)
	f.addReservation(t, past, domain.StatusCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: businessID, Date: yesterday, IncludeUnavailable: true})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 0, resp.Slots[0].OccupiedCount)
	assert.False(t, resp.Slots[0].IsAvailable)
}

func TestUseCase_Execute_FilterByService(t *testing.T) {
	f := newFixture(t)
	f.addSlot(t, wednesday, "12:00", 1, true)

	resp, err := f.uc.Execute(context.Background(), &Request{BusinessID: businessID, ServiceID: ptr.Ptr(int64(77)), Date: wednesday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

type failingTx struct{}

func (failingTx) DoReadOnly(context.Context, func(ctx context.Context) error) error {
	return errors.New("connection reset")
}

func TestUseCase_Execute_ReadTxFailure(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(store.Slots(), store.Reservations(), failingTx{}, Config{LeadDays: 30}, logger.Nop()).
		WithTimeProvider(fixedTime{now})

	_, err := uc.Execute(context.Background(), &Request{BusinessID: businessID, Date: wednesday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"NoBusiness", Request{Date: wednesday}, ErrInvalidInput},
		{"NoDate", Request{BusinessID: businessID}, ErrInvalidInput},
		{"PastDate", Request{BusinessID: businessID, Date: wednesday.AddDate(0, 0, -1)}, ErrInvalidDate},
		{"TooFar", Request{BusinessID: businessID, Date: wednesday.AddDate(0, 0, 31)}, ErrDateTooFarInFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrInvalidScheduleRequest)
		})
	}
}
