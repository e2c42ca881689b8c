package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Slot represents a discrete bookable time unit of one business service
type Slot struct {
	ID          int64
	BusinessID  int64
	ServiceID   int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Capacity    int // UnlimitedCapacity = no limit
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsUnlimited returns true if the slot accepts any number of concurrent reservations
func (s *Slot) IsUnlimited() bool {
	return s.Capacity == UnlimitedCapacity
}

// StartsAt returns the slot start as a point in time
func (s *Slot) StartsAt() time.Time {
	return s.StartTime.OnDate(s.Date)
}

// IsPast returns true if the slot has already started at now
func (s *Slot) IsPast(now time.Time) bool {
	return !now.Before(s.StartsAt())
}

// DurationMinutes returns the slot length in minutes
func (s *Slot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}

// Key returns the natural key of the slot
func (s *Slot) Key() SlotKey {
	return SlotKey{
		BusinessID: s.BusinessID,
		ServiceID:  s.ServiceID,
		Date:       s.Date.Format(DateFormat),
		StartTime:  s.StartTime.Minutes(),
	}
}

// SlotKey natural key (business, service, date, start time) used for duplicate detection
type SlotKey struct {
	BusinessID int64
	ServiceID  int64
	Date       string
	StartTime  int
}

// AvailableSlot represents a slot with its current occupancy
type AvailableSlot struct {
	Slot          Slot
	OccupiedCount int // Reservations occupying the slot (reporting rule)
	ActiveCount   int // PENDING + CONFIRMED reservations
}

// RemainingSpots returns free places, or -1 for unlimited slots
func (s *AvailableSlot) RemainingSpots() int {
	if s.Slot.IsUnlimited() {
		return -1
	}
	remaining := s.Slot.Capacity - s.ActiveCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return !s.Slot.IsUnlimited() && s.RemainingSpots() == 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.Slot.IsUnlimited() || s.Slot.Capacity == 0 {
		return 0
	}
	rate := float64(s.OccupiedCount) / float64(s.Slot.Capacity) * 100
	if rate > 100 {
		return 100
	}
	return rate
}

// SlotsFilter filter for slot listing
type SlotsFilter struct {
	BusinessID    int64
	ServiceID     *int64
	StartDate     time.Time
	EndDate       time.Time
	OnlyAvailable bool
}
