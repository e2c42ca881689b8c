package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// ListCustomerReservationsRequest запрос на получение бронирований клиента
type ListCustomerReservationsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// ListBusinessReservationsRequest запрос на получение бронирований бизнеса
type ListBusinessReservationsRequest struct {
	BusinessID      int64      `json:"businessId"`
	SlotID          *int64     `json:"slotId,omitempty"`          // Фильтр по слоту (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBusinessReservationsRequest) ToDomainFilter() (domain.ReservationsFilter, error) {
	businessID := r.BusinessID
	filter := domain.ReservationsFilter{
		BusinessID: &businessID,
		SlotID:     r.SlotID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}

	switch {
	case r.Status != nil:
		status, err := domain.ParseReservationStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.ReservationStatus{status}
	case !r.IncludeInactive:
		filter.Statuses = domain.ActiveStatuses
	}

	return filter, nil
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BusinessID      int64  `json:"businessId"`
	ServiceID       int64  `json:"serviceId"`
	SlotID          *int64 `json:"slotId,omitempty"`
	ReservationDate string `json:"reservationDate"` // "2025-10-15"
	ReservationTime string `json:"reservationTime"` // "10:00"
	Status          string `json:"status"`

	// Снимок услуги на момент бронирования
	ServiceName         string  `json:"serviceName"`
	ReservationPrice    float64 `json:"reservationPrice"`
	ReservationDuration int     `json:"reservationDuration"`

	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	RequestNotes  *string `json:"requestNotes,omitempty"`

	CancelDeadline     string  `json:"cancelDeadline"`         // ISO 8601
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                  r.ID,
		CustomerID:          r.CustomerID,
		BusinessID:          r.BusinessID,
		ServiceID:           r.ServiceID,
		SlotID:              r.SlotID,
		ReservationDate:     r.ReservationDate.Format(domain.DateFormat),
		ReservationTime:     r.ReservationTime.String(),
		Status:              string(r.Status),
		ServiceName:         r.ServiceName,
		ReservationPrice:    r.ReservationPrice,
		ReservationDuration: r.ReservationDuration,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		RequestNotes:        r.RequestNotes,
		CancelDeadline:      r.CancelDeadline().Format(time.RFC3339),
		CancellationReason:  r.CancellationReason,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}
