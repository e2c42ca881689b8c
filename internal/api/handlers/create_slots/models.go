package create_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/create_slots"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateSlotsRequest HTTP request model
type CreateSlotsRequest struct {
	ServiceID       int64             `json:"serviceId"`
	IntervalMinutes int               `json:"intervalMinutes"`
	Capacity        *int              `json:"capacity,omitempty"` // 0 - без ограничения
	Schedules       []ScheduleRequest `json:"schedules"`
}

// ScheduleRequest дата и диапазоны, без timeRanges - весь рабочий день
type ScheduleRequest struct {
	Date       string             `json:"date"` // "2025-10-15"
	TimeRanges []TimeRangeRequest `json:"timeRanges,omitempty"`
}

type TimeRangeRequest struct {
	Start string `json:"start"` // "10:00"
	End   string `json:"end"`   // "12:00"
}

// CreateSlotsResponse HTTP response model
type CreateSlotsResponse struct {
	Requested    int      `json:"requested"`
	Created      int      `json:"created"`
	Skipped      int      `json:"skipped"`
	Failed       int      `json:"failed"`
	Rejected     int      `json:"rejected"`
	SkippedDates []string `json:"skippedDates"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSlotsRequest) ToUseCaseRequest(businessID int64) (*createSlots.Request, error) {
	req := &createSlots.Request{
		BusinessID:      businessID,
		ServiceID:       r.ServiceID,
		IntervalMinutes: r.IntervalMinutes,
		Capacity:        r.Capacity,
		Schedules:       make([]createSlots.Schedule, 0, len(r.Schedules)),
	}

	for i, s := range r.Schedules {
		date, err := time.Parse(domain.DateFormat, s.Date)
		if err != nil {
			return nil, fmt.Errorf("schedule %d: date: %w", i, err)
		}

		schedule := createSlots.Schedule{Date: date}
		for j, tr := range s.TimeRanges {
			start, err := types.NewTimeStringFromString(tr.Start)
			if err != nil {
				return nil, fmt.Errorf("schedule %d, range %d: start: %w", i, j, err)
			}
			end, err := types.NewTimeStringFromString(tr.End)
			if err != nil {
				return nil, fmt.Errorf("schedule %d, range %d: end: %w", i, j, err)
			}
			schedule.TimeRanges = append(schedule.TimeRanges, domain.TimeRange{Start: start, End: end})
		}

		req.Schedules = append(req.Schedules, schedule)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSlots.Response) *CreateSlotsResponse {
	skipped := make([]string, 0, len(resp.SkippedDates))
	for _, d := range resp.SkippedDates {
		skipped = append(skipped, d.Format(domain.DateFormat))
	}

	return &CreateSlotsResponse{
		Requested:    resp.Requested,
		Created:      resp.Created,
		Skipped:      resp.Skipped,
		Failed:       resp.Failed,
		Rejected:     resp.Rejected,
		SkippedDates: skipped,
	}
}
