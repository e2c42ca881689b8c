package cancel_reservation

import (
	cancelReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/cancel_reservation"
)

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelReservationRequest) ToUseCaseRequest(reservationID, customerID int64) *cancelReservation.Request {
	return &cancelReservation.Request{
		ReservationID: reservationID,
		CustomerID:    customerID,
		Reason:        r.CancellationReason,
	}
}
