package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedule/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

func window(day, seq int, open, closeTime string) models.WindowRequest {
	return models.WindowRequest{DayOfWeek: day, Sequence: seq, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(closeTime)}
}

func TestService_Replace(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.OperatingHours(), store, logger.Nop())

	resp, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{
		BusinessID: 10,
		Windows: []models.WindowRequest{
			window(3, 2, "13:00", "18:00"),
			window(3, 1, "09:00", "12:00"),
			{DayOfWeek: 0, Sequence: 1, IsClosed: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Windows, 3)

	wednesday, err := store.OperatingHours().GetByBusinessAndDay(context.Background(), 10, domain.Wednesday)
	require.NoError(t, err)
	require.Len(t, wednesday, 2)
	assert.Equal(t, 1, wednesday[0].Sequence)
	assert.Equal(t, "09:00", wednesday[0].OpenTime.String())

	got, err := svc.Get(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, resp, got)
}

func TestService_Replace_Validation(t *testing.T) {
	tests := []struct {
		name    string
		windows []models.WindowRequest
	}{
		{"Overlap", []models.WindowRequest{window(1, 1, "09:00", "13:00"), window(1, 2, "12:00", "18:00")}},
		{"DuplicateSequence", []models.WindowRequest{window(1, 1, "09:00", "12:00"), window(1, 1, "13:00", "18:00")}},
		{"OpenAfterClose", []models.WindowRequest{window(2, 1, "18:00", "09:00")}},
		{"BadDay", []models.WindowRequest{window(7, 1, "09:00", "18:00")}},
		{"BadTime", []models.WindowRequest{window(1, 1, "9am", "18:00")}},
		{"MissingTime", []models.WindowRequest{{DayOfWeek: 1, Sequence: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			svc := NewService(store.OperatingHours(), store, logger.Nop())

			_, err := svc.Replace(context.Background(), &models.ReplaceScheduleRequest{BusinessID: 10, Windows: tt.windows})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, domain.ErrInvalidScheduleRequest)

			stored, err := store.OperatingHours().GetByBusiness(context.Background(), 10)
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}
