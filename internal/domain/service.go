package domain

// Service booking-relevant part of a menu item as returned by the menu collaborator
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	IsSlotBased     bool
	IsOnDemandBased bool
	Price           float64
	DurationMinutes int
}

// SupportsSlots returns true if the service is booked against pre-generated slots
func (s *Service) SupportsSlots() bool {
	return s.IsSlotBased
}

// SupportsOnDemand returns true if the service is booked at an explicit date and time
func (s *Service) SupportsOnDemand() bool {
	return s.IsOnDemandBased
}
