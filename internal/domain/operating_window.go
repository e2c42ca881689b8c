package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DayOfWeek day index 0-6, Sunday first (same numbering as time.Weekday)
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllDays every day of the week in storage order
var AllDays = []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOfWeekOf returns the day of week of a calendar date
func DayOfWeekOf(date time.Time) DayOfWeek {
	return DayOfWeek(date.Weekday())
}

// IsValid reports whether d is one of the seven days
func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d DayOfWeek) String() string {
	switch d {
	case Sunday:
		return "sunday"
	case Monday:
		return "monday"
	case Tuesday:
		return "tuesday"
	case Wednesday:
		return "wednesday"
	case Thursday:
		return "thursday"
	case Friday:
		return "friday"
	case Saturday:
		return "saturday"
	}
	return fmt.Sprintf("day(%d)", int(d))
}

// OperatingWindow a single open/close range of a business on one day of week
// A day may have several windows ordered by Sequence and separated by breaks
type OperatingWindow struct {
	ID         int64
	BusinessID int64
	DayOfWeek  DayOfWeek
	Sequence   int
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsClosed   bool
}

// Contains reports whether [start, end] lies entirely inside the window (bounds inclusive)
func (w OperatingWindow) Contains(start, end types.TimeString) bool {
	if w.IsClosed {
		return false
	}
	return start.Minutes() >= w.OpenTime.Minutes() && end.Minutes() <= w.CloseTime.Minutes()
}

// Validate checks that the window is well formed
func (w OperatingWindow) Validate() error {
	if !w.DayOfWeek.IsValid() {
		return fmt.Errorf("invalid day of week %d", int(w.DayOfWeek))
	}
	if w.Sequence < 0 {
		return fmt.Errorf("sequence must be non-negative")
	}
	if w.IsClosed {
		return nil
	}
	if err := w.OpenTime.Validate(); err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	if err := w.CloseTime.Validate(); err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	if !w.OpenTime.IsBefore(w.CloseTime) {
		return fmt.Errorf("open time %s must be before close time %s", w.OpenTime, w.CloseTime)
	}
	return nil
}

// OpenWindows drops closed windows and orders the rest by sequence
func OpenWindows(windows []OperatingWindow) []OperatingWindow {
	open := make([]OperatingWindow, 0, len(windows))
	for _, w := range windows {
		if !w.IsClosed {
			open = append(open, w)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Sequence < open[j].Sequence
	})
	return open
}

// ValidateDaySchedule checks windows of one day: each is valid and they do not overlap
func ValidateDaySchedule(windows []OperatingWindow) error {
	open := OpenWindows(windows)
	for i, w := range windows {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
	}
	for i := 1; i < len(open); i++ {
		if open[i].OpenTime.IsBefore(open[i-1].CloseTime) {
			return fmt.Errorf("window %d (%s-%s) overlaps previous window (%s-%s)",
				open[i].Sequence, open[i].OpenTime, open[i].CloseTime, open[i-1].OpenTime, open[i-1].CloseTime)
		}
	}
	return nil
}

// TimeRange caller supplied range of a generation request
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Validate rejects malformed ranges (start >= end)
func (r TimeRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("%w: range start: %v", ErrInvalidScheduleRequest, err)
	}
	if err := r.End.Validate(); err != nil {
		return fmt.Errorf("%w: range end: %v", ErrInvalidScheduleRequest, err)
	}
	if !r.Start.IsBefore(r.End) {
		return fmt.Errorf("%w: range start %s must be before end %s", ErrInvalidScheduleRequest, r.Start, r.End)
	}
	return nil
}
