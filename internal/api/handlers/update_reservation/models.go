package update_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	updateReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/update_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UpdateReservationRequest HTTP request model
// Переданные поля заменяют текущие значения
type UpdateReservationRequest struct {
	ReservationDate *string `json:"reservationDate,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	RequestNotes    *string `json:"requestNotes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(reservationID, customerID int64) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		ReservationID: reservationID,
		CustomerID:    customerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		RequestNotes:  r.RequestNotes,
	}

	if r.ReservationDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.ReservationDate)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	return req, nil
}
