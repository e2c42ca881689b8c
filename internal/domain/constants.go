package domain

// UnlimitedCapacity capacity sentinel for slots without a concurrent booking limit
const UnlimitedCapacity = 0

// Default configuration values
const (
	DefaultIntervalMinutes  = 60
	DefaultSlotCapacity     = 1
	DefaultMaxRangeDays     = 90
	DefaultCustomerLeadDays = 30
)

// Business validation constants
const (
	MinIntervalMinutes          = 5
	MaxIntervalMinutes          = 480 // 8 hours
	MaxSlotCapacity             = 1000
	MaxGenerationRangeDays      = 366
	MaxWindowsPerDay            = 8
	MaxCustomerNameLength       = 100
	MaxCustomerPhoneLength      = 32
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that hold a unit of slot capacity
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// OccupyingStatuses statuses counted as occupying a slot in reports
// COMPLETED is dropped from the count once the slot date has passed
var OccupyingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
