package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
	StatusNoShow    ReservationStatus = "NO_SHOW"
)

// ParseReservationStatus parses a status case-insensitively
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidReservationRequest, s)
	}
	return status, nil
}

// IsValid returns true for one of the known statuses
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActive returns true if the reservation holds a unit of slot capacity
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transition is possible
func (s ReservationStatus) IsTerminal() bool {
	return s.IsValid() && len(s.allowedTransitions()) == 0
}

// CanTransitionTo returns true if the state machine allows s -> to
func (s ReservationStatus) CanTransitionTo(to ReservationStatus) bool {
	if !s.IsValid() || !to.IsValid() {
		return false
	}
	for _, allowed := range s.allowedTransitions() {
		if allowed == to {
			return true
		}
	}
	return false
}

// allowedTransitions transition table of the reservation lifecycle
// Panics on a status missing from the switch so that a new status cannot be added silently
func (s ReservationStatus) allowedTransitions() []ReservationStatus {
	switch s {
	case StatusPending:
		return []ReservationStatus{StatusConfirmed, StatusCancelled}
	case StatusConfirmed:
		return []ReservationStatus{StatusCompleted, StatusCancelled, StatusNoShow}
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return nil
	}
	panic(fmt.Sprintf("domain: unhandled reservation status %q", string(s)))
}

// Reservation represents a customer booking of a service
// SlotID is nil for on-demand reservations booked at an explicit date and time
type Reservation struct {
	ID         int64
	CustomerID int64
	BusinessID int64
	ServiceID  int64
	SlotID     *int64

	ReservationDate time.Time
	ReservationTime types.TimeString

	// Snapshot of the service taken at creation, never re-read afterwards
	ReservationPrice    float64
	ReservationDuration int
	ServiceName         string

	Status ReservationStatus

	CustomerName  *string
	CustomerPhone *string
	RequestNotes  *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerDetails editable customer-provided fields of a reservation
type CustomerDetails struct {
	Name         *string
	Phone        *string
	RequestNotes *string
}

// NewReservation builds a PENDING reservation and freezes the service snapshot
// A slot-based service requires slot; an on-demand service requires date and time and no slot
func NewReservation(
	customerID int64,
	service *Service,
	slot *Slot,
	date time.Time,
	startTime types.TimeString,
	details CustomerDetails,
	now time.Time,
) (*Reservation, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidReservationRequest)
	}
	if service == nil {
		return nil, fmt.Errorf("%w: service is required", ErrInvalidReservationRequest)
	}

	r := &Reservation{
		CustomerID:          customerID,
		BusinessID:          service.BusinessID,
		ServiceID:           service.ID,
		ReservationPrice:    service.Price,
		ReservationDuration: service.DurationMinutes,
		ServiceName:         service.Name,
		Status:              StatusPending,
		CustomerName:        details.Name,
		CustomerPhone:       details.Phone,
		RequestNotes:        details.RequestNotes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	switch {
	case slot != nil:
		if !service.SupportsSlots() {
			return nil, fmt.Errorf("%w: slot id=%d given for on-demand service id=%d", ErrSlotUnavailable, slot.ID, service.ID)
		}
		if slot.ServiceID != service.ID || slot.BusinessID != service.BusinessID {
			return nil, fmt.Errorf("%w: slot id=%d belongs to service id=%d, requested service id=%d",
				ErrSlotUnavailable, slot.ID, slot.ServiceID, service.ID)
		}
		slotID := slot.ID
		r.SlotID = &slotID
		r.ReservationDate = slot.Date
		r.ReservationTime = slot.StartTime

	case service.SupportsSlots():
		return nil, fmt.Errorf("%w: service id=%d is slot-based, slot is required", ErrInvalidReservationRequest, service.ID)

	case service.SupportsOnDemand():
		if date.IsZero() || startTime.IsZero() {
			return nil, fmt.Errorf("%w: on-demand service id=%d requires date and time", ErrInvalidReservationRequest, service.ID)
		}
		if err := startTime.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid time: %v", ErrInvalidReservationRequest, err)
		}
		r.ReservationDate = date
		r.ReservationTime = startTime

	default:
		return nil, fmt.Errorf("%w: service id=%d is neither slot-based nor on-demand", ErrSlotUnavailable, service.ID)
	}

	return r, nil
}

// IsSlotBased returns true if the reservation references a slot
func (r *Reservation) IsSlotBased() bool {
	return r.SlotID != nil
}

// IsActive returns true if the reservation holds slot capacity
func (r *Reservation) IsActive() bool {
	return r.Status.IsActive()
}

// IsOwnedBy returns true if customerID is the reservation's customer
func (r *Reservation) IsOwnedBy(customerID int64) bool {
	return r.CustomerID == customerID
}

// StartsAt returns the reservation start as a point in time
func (r *Reservation) StartsAt() time.Time {
	return r.ReservationTime.OnDate(r.ReservationDate)
}

// CancelDeadline start of the reservation minus its snapshot duration
func (r *Reservation) CancelDeadline() time.Time {
	return r.StartsAt().Add(-time.Duration(r.ReservationDuration) * time.Minute)
}

// IsCancellable status-based check: only PENDING and CONFIRMED may be cancelled
func (r *Reservation) IsCancellable() bool {
	return r.Status.CanTransitionTo(StatusCancelled)
}

// IsCancellableByTime deadline-based check: now must be strictly before the deadline
func (r *Reservation) IsCancellableByTime(now time.Time) bool {
	return now.Before(r.CancelDeadline())
}

// CanBeEdited returns true while the reservation is PENDING
func (r *Reservation) CanBeEdited() bool {
	return r.Status == StatusPending
}

// OccupiesSlot reporting rule: active reservations always occupy the slot,
// COMPLETED ones only until the slot date has passed
func (r *Reservation) OccupiesSlot(today time.Time) bool {
	if r.Status.IsActive() {
		return true
	}
	if r.Status != StatusCompleted {
		return false
	}
	return !dateOnly(r.ReservationDate).Before(dateOnly(today))
}

// TransitionTo applies a status change if the state machine allows it
func (r *Reservation) TransitionTo(to ReservationStatus, now time.Time) error {
	if !r.Status.CanTransitionTo(to) {
		return &TransitionError{From: r.Status, To: to}
	}
	r.Status = to
	r.UpdatedAt = now
	return nil
}

// Cancel applies both cancellation checks, then moves to CANCELLED and stamps CancelledAt
func (r *Reservation) Cancel(reason *string, now time.Time) error {
	if !r.IsCancellable() {
		return &TransitionError{From: r.Status, To: StatusCancelled}
	}
	if !r.IsCancellableByTime(now) {
		return fmt.Errorf("%w: reservation id=%d deadline %s, now %s",
			ErrCancellationDeadlinePassed, r.ID, r.CancelDeadline().Format(time.RFC3339), now.Format(time.RFC3339))
	}
	if err := r.TransitionTo(StatusCancelled, now); err != nil {
		return err
	}
	cancelledAt := now
	r.CancelledAt = &cancelledAt
	r.CancellationReason = reason
	return nil
}

// Reschedule moves an on-demand reservation to a new date and time while PENDING
func (r *Reservation) Reschedule(date time.Time, startTime types.TimeString, now time.Time) error {
	if !r.CanBeEdited() {
		return fmt.Errorf("%w: reservation id=%d status %s", ErrNotEditable, r.ID, r.Status)
	}
	if r.IsSlotBased() {
		return fmt.Errorf("%w: reservation id=%d is bound to slot id=%d", ErrInvalidReservationRequest, r.ID, *r.SlotID)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidReservationRequest)
	}
	if err := startTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time: %v", ErrInvalidReservationRequest, err)
	}
	r.ReservationDate = date
	r.ReservationTime = startTime
	r.UpdatedAt = now
	return nil
}

// UpdateDetails replaces the provided customer fields while PENDING
func (r *Reservation) UpdateDetails(details CustomerDetails, now time.Time) error {
	if !r.CanBeEdited() {
		return fmt.Errorf("%w: reservation id=%d status %s", ErrNotEditable, r.ID, r.Status)
	}
	if details.Name != nil {
		r.CustomerName = details.Name
	}
	if details.Phone != nil {
		r.CustomerPhone = details.Phone
	}
	if details.RequestNotes != nil {
		r.RequestNotes = details.RequestNotes
	}
	r.UpdatedAt = now
	return nil
}

// ValidateBookingTime rejects an on-demand start that is not strictly in the future
func ValidateBookingTime(startsAt, now time.Time) error {
	if !now.Before(startsAt) {
		return fmt.Errorf("%w: requested time %s is in the past", ErrInvalidReservationRequest, startsAt.Format(time.RFC3339))
	}
	return nil
}

// ValidateLeadDays rejects a date more than leadDays after today. leadDays <= 0 disables the bound
func ValidateLeadDays(date, now time.Time, leadDays int) error {
	if leadDays <= 0 {
		return nil
	}
	maxDate := dateOnly(now.UTC()).AddDate(0, 0, leadDays)
	if dateOnly(date.UTC()).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance, requested %s",
			ErrDateTooFarInFuture, leadDays, date.Format(DateFormat))
	}
	return nil
}

// ReservationsFilter filter for reservation listing
type ReservationsFilter struct {
	CustomerID *int64
	BusinessID *int64
	SlotID     *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Statuses   []ReservationStatus
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
