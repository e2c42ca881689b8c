package models

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модели

// WindowRequest рабочее окно в запросе
type WindowRequest struct {
	DayOfWeek int     `json:"dayOfWeek"` // 0 - воскресенье, 6 - суббота
	Sequence  int     `json:"sequence"`
	OpenTime  *string `json:"openTime,omitempty"`  // "09:00", не нужен для закрытого дня
	CloseTime *string `json:"closeTime,omitempty"` // "18:00"
	IsClosed  bool    `json:"isClosed"`
}

// ReplaceScheduleRequest запрос на полную замену недельного расписания
type ReplaceScheduleRequest struct {
	BusinessID int64           `json:"businessId"`
	Windows    []WindowRequest `json:"windows"`
}

// ToDomainWindows конвертирует request в domain модели
func (r *ReplaceScheduleRequest) ToDomainWindows() ([]domain.OperatingWindow, error) {
	windows := make([]domain.OperatingWindow, 0, len(r.Windows))

	for i, w := range r.Windows {
		window := domain.OperatingWindow{
			BusinessID: r.BusinessID,
			DayOfWeek:  domain.DayOfWeek(w.DayOfWeek),
			Sequence:   w.Sequence,
			IsClosed:   w.IsClosed,
		}

		if !w.IsClosed {
			if w.OpenTime == nil || w.CloseTime == nil {
				return nil, fmt.Errorf("window %d: openTime and closeTime are required", i)
			}
			open, err := types.NewTimeStringFromString(*w.OpenTime)
			if err != nil {
				return nil, fmt.Errorf("window %d: openTime: %w", i, err)
			}
			closeTime, err := types.NewTimeStringFromString(*w.CloseTime)
			if err != nil {
				return nil, fmt.Errorf("window %d: closeTime: %w", i, err)
			}
			window.OpenTime = open
			window.CloseTime = closeTime
		}

		windows = append(windows, window)
	}

	return windows, nil
}

// Response модели

// WindowResponse рабочее окно в ответе
type WindowResponse struct {
	DayOfWeek int     `json:"dayOfWeek"`
	DayName   string  `json:"dayName"`
	Sequence  int     `json:"sequence"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	IsClosed  bool    `json:"isClosed"`
}

// ScheduleResponse недельное расписание бизнеса
type ScheduleResponse struct {
	BusinessID int64            `json:"businessId"`
	Windows    []WindowResponse `json:"windows"`
}

// Методы конвертации

// FromDomainWindows конвертирует domain модели в DTO
func FromDomainWindows(businessID int64, windows []domain.OperatingWindow) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID: businessID,
		Windows:    make([]WindowResponse, 0, len(windows)),
	}

	for _, w := range windows {
		item := WindowResponse{
			DayOfWeek: int(w.DayOfWeek),
			DayName:   w.DayOfWeek.String(),
			Sequence:  w.Sequence,
			IsClosed:  w.IsClosed,
		}
		if !w.IsClosed {
			open, closeTime := w.OpenTime.String(), w.CloseTime.String()
			item.OpenTime = &open
			item.CloseTime = &closeTime
		}
		resp.Windows = append(resp.Windows, item)
	}

	return resp
}
