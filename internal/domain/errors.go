package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScheduleRequest malformed date range, non-positive interval or interval shorter than the service duration
	ErrInvalidScheduleRequest = errors.New("domain: invalid schedule request")

	// ErrInvalidReservationRequest required reservation fields are missing or malformed
	ErrInvalidReservationRequest = errors.New("domain: invalid reservation request")

	// ErrDateTooFarInFuture the date is beyond the booking lead-days horizon
	ErrDateTooFarInFuture = fmt.Errorf("%w: date is too far in the future", ErrInvalidReservationRequest)

	// ErrSlotCapacityExceeded the slot has no free capacity left
	ErrSlotCapacityExceeded = errors.New("domain: slot capacity exceeded")

	// ErrSlotUnavailable the slot is deactivated, in the past or belongs to a mismatched service
	ErrSlotUnavailable = errors.New("domain: slot unavailable")

	// ErrSlotHasActiveReservations the slot cannot be deleted or deactivated while it holds active reservations
	ErrSlotHasActiveReservations = errors.New("domain: slot has active reservations")

	// ErrInvalidStateTransition disallowed reservation status change
	ErrInvalidStateTransition = errors.New("domain: invalid reservation state transition")

	// ErrNotEditable the reservation is no longer PENDING and cannot be edited in place
	ErrNotEditable = fmt.Errorf("%w: reservation can be edited only while pending", ErrInvalidStateTransition)

	// ErrCancellationDeadlinePassed cancellation attempted at or after the deadline
	ErrCancellationDeadlinePassed = errors.New("domain: cancellation deadline passed")

	// ErrReservationNotOwned the caller is not the customer of the reservation
	ErrReservationNotOwned = errors.New("domain: reservation not owned by caller")
)

// TransitionError names both states of a rejected status change
type TransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStateTransition.Error(), e.From, e.To)
}

// Is makes errors.Is(err, ErrInvalidStateTransition) match
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}
