package create_reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid reservation date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateReservationRequest HTTP request model
// Для услуги со слотами передается slotId, для услуги по запросу - reservationDate и startTime
type CreateReservationRequest struct {
	ServiceID       int64   `json:"serviceId"`
	SlotID          *int64  `json:"slotId,omitempty"`
	ReservationDate *string `json:"reservationDate,omitempty"` // "2025-10-15"
	StartTime       *string `json:"startTime,omitempty"`       // "10:00"
	CustomerName    *string `json:"customerName,omitempty"`
	CustomerPhone   *string `json:"customerPhone,omitempty"`
	RequestNotes    *string `json:"requestNotes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(customerID int64) (*createReservation.Request, error) {
	req := &createReservation.Request{
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		SlotID:        r.SlotID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		RequestNotes:  r.RequestNotes,
	}

	if r.ReservationDate != nil {
		date, err := time.Parse(domain.DateFormat, *r.ReservationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
		}
		req.Date = date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
		}
		req.StartTime = startTime
	}

	return req, nil
}
