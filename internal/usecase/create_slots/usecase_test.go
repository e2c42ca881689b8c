package create_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	menuClient "github.com/m04kA/SMC-ReservationService/internal/integrations/menuservice"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	businessID = int64(10)
	serviceID  = int64(5)
)

var (
	// Понедельник
	now       = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type mockMenu struct{ mock.Mock }

func (m *mockMenu) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*domain.Service); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingMetrics struct{ created, skipped int }

func (r *recordingMetrics) ObserveSlotGeneration(created, skipped int) {
	r.created += created
	r.skipped += skipped
}

// failingSlots отказывает в сохранении слота с заданным временем начала
type failingSlots struct {
	SlotRepository
	failAt types.TimeString
}

func (f failingSlots) CreateIfNotExists(ctx context.Context, slot *domain.Slot) (bool, error) {
	if slot.StartTime == f.failAt {
		return false, errors.New("disk full")
	}
	return f.SlotRepository.CreateIfNotExists(ctx, slot)
}

type fixture struct {
	store   *memory.Store
	menu    *mockMenu
	metrics *recordingMetrics
	uc      *UseCase
}

func newFixture(t *testing.T, service *domain.Service) *fixture {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.OperatingHours().ReplaceForBusiness(context.Background(), businessID, []domain.OperatingWindow{
		{DayOfWeek: domain.Wednesday, Sequence: 1, OpenTime: "09:00", CloseTime: "12:00"},
		{DayOfWeek: domain.Wednesday, Sequence: 2, OpenTime: "13:00", CloseTime: "18:00"},
		{DayOfWeek: domain.Sunday, Sequence: 1, IsClosed: true},
	}))

	menu := &mockMenu{}
	if service != nil {
		menu.On("GetService", mock.Anything, service.ID).Return(service, nil)
	}

	metrics := &recordingMetrics{}
	uc := NewUseCase(store.Slots(), store.OperatingHours(), menu, metrics, logger.Nop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, menu: menu, metrics: metrics, uc: uc}
}

func slotService() *domain.Service {
	return &domain.Service{ID: serviceID, BusinessID: businessID, Name: "Стрижка", IsSlotBased: true, Price: 1000, DurationMinutes: 60}
}

func (f *fixture) countSlots(t *testing.T, date time.Time) int {
	t.Helper()
	list, err := f.store.Slots().List(context.Background(), domain.SlotsFilter{BusinessID: businessID, StartDate: date, EndDate: date})
	require.NoError(t, err)
	return len(list)
}

func TestUseCase_Execute_WindowUnion(t *testing.T) {
	f := newFixture(t, slotService())

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID:      businessID,
		ServiceID:       serviceID,
		IntervalMinutes: 60,
		Schedules:       []Schedule{{Date: wednesday}},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Requested)
	assert.Equal(t, 8, resp.Created)
	assert.Equal(t, 0, resp.Skipped)
	assert.Equal(t, 0, resp.Rejected, "whole-day generation steps inside each window")

	list, err := f.store.Slots().List(context.Background(), domain.SlotsFilter{BusinessID: businessID, StartDate: wednesday, EndDate: wednesday})
	require.NoError(t, err)
	require.Len(t, list, 8)
	assert.Equal(t, types.TimeString("09:00"), list[0].StartTime)
	assert.Equal(t, types.TimeString("17:00"), list[7].StartTime)
	for _, s := range list {
		assert.NotEqual(t, types.TimeString("12:00"), s.StartTime)
		assert.Equal(t, domain.DefaultSlotCapacity, s.Capacity)
		assert.True(t, s.IsAvailable)
		assert.Equal(t, 60, s.DurationMinutes())
	}

	assert.Equal(t, 8, f.metrics.created)
}

func TestUseCase_Execute_Idempotent(t *testing.T) {
	f := newFixture(t, slotService())
	req := &Request{
		BusinessID:      businessID,
		ServiceID:       serviceID,
		IntervalMinutes: 60,
		Capacity:        ptr.Ptr(3),
		Schedules:       []Schedule{{Date: wednesday}},
	}

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 8, second.Skipped)
	assert.Equal(t, 8, f.countSlots(t, wednesday))
}

func TestUseCase_Execute_Boundary(t *testing.T) {
	f := newFixture(t, slotService())

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID:      businessID,
		ServiceID:       serviceID,
		IntervalMinutes: 90,
		Schedules: []Schedule{{
			Date: wednesday,
			TimeRanges: []domain.TimeRange{
				{Start: "10:30", End: "12:00"},
				{Start: "16:31", End: "18:01"},
			},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Created, "10:30-12:00 ends exactly at close")
	assert.Equal(t, 1, resp.Rejected, "16:31-18:01 ends one minute after close")
}

func TestUseCase_Execute_SkipsClosedDates(t *testing.T) {
	f := newFixture(t, slotService())

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID:      businessID,
		ServiceID:       serviceID,
		IntervalMinutes: 60,
		Schedules:       []Schedule{{Date: wednesday}, {Date: sunday}, {Date: wednesday.AddDate(0, 0, 1)}},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Created)
	assert.Equal(t, 2, resp.Skipped, "dates without open windows count as skipped")
	require.Len(t, resp.SkippedDates, 2)
	assert.True(t, resp.SkippedDates[0].Equal(sunday))
}

func TestUseCase_Execute_PartialFailure(t *testing.T) {
	f := newFixture(t, slotService())
	f.uc.slotRepo = failingSlots{SlotRepository: f.store.Slots(), failAt: "10:00"}

	resp, err := f.uc.Execute(context.Background(), &Request{
		BusinessID:      businessID,
		ServiceID:       serviceID,
		IntervalMinutes: 60,
		Schedules:       []Schedule{{Date: wednesday}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 7, resp.Created)
}

func TestUseCase_Execute_Validation(t *testing.T) {
	onDemand := &domain.Service{ID: serviceID, BusinessID: businessID, IsOnDemandBased: true}
	long := &domain.Service{ID: serviceID, BusinessID: businessID, IsSlotBased: true, DurationMinutes: 90}
	foreign := &domain.Service{ID: serviceID, BusinessID: 99, IsSlotBased: true}

	tests := []struct {
		name    string
		service *domain.Service
		req     Request
		wantErr error
	}{
		{
			name:    "ZeroInterval",
			service: slotService(),
			req:     Request{BusinessID: businessID, ServiceID: serviceID, Schedules: []Schedule{{Date: wednesday}}},
			wantErr: domain.ErrInvalidScheduleRequest,
		},
		{
			name:    "PastDate",
			service: slotService(),
			req:     Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: now.AddDate(0, 0, -1)}}},
			wantErr: domain.ErrInvalidScheduleRequest,
		},
		{
			name:    "MalformedRange",
			service: slotService(),
			req: Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{
				Date: wednesday, TimeRanges: []domain.TimeRange{{Start: "12:00", End: "10:00"}},
			}}},
			wantErr: domain.ErrInvalidScheduleRequest,
		},
		{
			name:    "NoSchedules",
			service: slotService(),
			req:     Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60},
			wantErr: domain.ErrInvalidScheduleRequest,
		},
		{
			name:    "IntervalShorterThanDuration",
			service: long,
			req:     Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: wednesday}}},
			wantErr: domain.ErrInvalidScheduleRequest,
		},
		{
			name:    "OnDemandService",
			service: onDemand,
			req:     Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: wednesday}}},
			wantErr: ErrServiceNotSlotBased,
		},
		{
			name:    "ForeignService",
			service: foreign,
			req:     Request{BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: wednesday}}},
			wantErr: ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.service)
			_, err := f.uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.countSlots(t, wednesday))
		})
	}
}

func TestUseCase_Execute_ServiceErrors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t, nil)
		f.menu.On("GetService", mock.Anything, serviceID).Return(nil, menuClient.ErrServiceNotFound)

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: wednesday}},
		})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("Unavailable", func(t *testing.T) {
		f := newFixture(t, nil)
		f.menu.On("GetService", mock.Anything, serviceID).Return(nil, menuClient.ErrUnavailable)

		_, err := f.uc.Execute(context.Background(), &Request{
			BusinessID: businessID, ServiceID: serviceID, IntervalMinutes: 60, Schedules: []Schedule{{Date: wednesday}},
		})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
