package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// buildSlots собирает занятость слотов
// COMPLETED учитывается в OccupiedCount только пока дата слота не прошла
func buildSlots(
	slots []*domain.Slot,
	active map[int64]int,
	completed map[int64]int,
	now time.Time,
	includeUnavailable bool,
) []Slot {
	today := dateOnly(now)
	result := make([]Slot, 0, len(slots))

	for _, s := range slots {
		available := domain.AvailableSlot{
			Slot:          *s,
			ActiveCount:   active[s.ID],
			OccupiedCount: active[s.ID],
		}
		if !dateOnly(s.Date).Before(today) {
			available.OccupiedCount += completed[s.ID]
		}

		bookable := s.IsAvailable && !available.IsFull() && !s.IsPast(now)
		if !bookable && !includeUnavailable {
			continue
		}

		result = append(result, Slot{
			ID:              s.ID,
			ServiceID:       s.ServiceID,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationMinutes: s.DurationMinutes(),
			TotalSpots:      s.Capacity,
			AvailableSpots:  available.RemainingSpots(),
			ActiveCount:     available.ActiveCount,
			OccupiedCount:   available.OccupiedCount,
			OccupancyRate:   available.OccupancyRate(),
			IsAvailable:     bookable,
		})
	}

	return result
}

// slotIDs возвращает ID слотов
func slotIDs(slots []*domain.Slot) []int64 {
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
