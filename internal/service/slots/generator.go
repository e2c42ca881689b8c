package slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DaySchedule дата генерации и диапазоны времени на эту дату
// Пустой TimeRanges означает "весь рабочий день"
type DaySchedule struct {
	Date       time.Time
	TimeRanges []domain.TimeRange
}

// GenerateParams параметры генерации слотов
type GenerateParams struct {
	BusinessID      int64
	ServiceID       int64
	IntervalMinutes int
	Capacity        int
	Schedules       []DaySchedule
}

// GenerateResult кандидаты в слоты и статистика отбора
type GenerateResult struct {
	Candidates   []domain.Slot
	Rejected     int         // кандидаты вне рабочих окон (перерывы)
	SkippedDates []time.Time // даты без открытых окон
}

// WindowsByDay рабочие окна бизнеса, сгруппированные по дню недели
type WindowsByDay map[domain.DayOfWeek][]domain.OperatingWindow

// Generate разворачивает даты и диапазоны в кандидатов в слоты
// Кандидат принимается, только если целиком лежит внутри одного из открытых окон дня
// Результат отсортирован по дате, затем по времени начала
func Generate(params GenerateParams, windows WindowsByDay) (*GenerateResult, error) {
	if params.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: interval must be positive, got %d", domain.ErrInvalidScheduleRequest, params.IntervalMinutes)
	}

	result := &GenerateResult{Candidates: make([]domain.Slot, 0)}
	seen := make(map[domain.SlotKey]struct{})

	for _, schedule := range params.Schedules {
		date := dateOnly(schedule.Date)
		open := domain.OpenWindows(windows[domain.DayOfWeekOf(date)])
		if len(open) == 0 {
			result.SkippedDates = append(result.SkippedDates, date)
			continue
		}

		ranges := schedule.TimeRanges
		if len(ranges) == 0 {
			ranges = windowRanges(open)
		}

		for _, r := range ranges {
			starts, err := stepRange(r, params.IntervalMinutes)
			if err != nil {
				return nil, err
			}

			for _, start := range starts {
				end, _ := start.AddMinutes(params.IntervalMinutes)
				if !containedInAny(open, start, end) {
					result.Rejected++
					continue
				}

				slot := domain.Slot{
					BusinessID:  params.BusinessID,
					ServiceID:   params.ServiceID,
					Date:        date,
					StartTime:   start,
					EndTime:     end,
					Capacity:    params.Capacity,
					IsAvailable: true,
				}

				// Пересекающиеся диапазоны запроса не должны давать дублей
				key := slot.Key()
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				result.Candidates = append(result.Candidates, slot)
			}
		}
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.StartTime.IsBefore(b.StartTime)
	})

	return result, nil
}

// stepRange шагает от начала диапазона с шагом interval, пока current+interval <= end
func stepRange(r domain.TimeRange, interval int) ([]types.TimeString, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	startMin, endMin := r.Start.Minutes(), r.End.Minutes()
	starts := make([]types.TimeString, 0, (endMin-startMin)/interval)

	for current := startMin; current+interval <= endMin; current += interval {
		ts, err := types.FromMinutes(current)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidScheduleRequest, err)
		}
		starts = append(starts, ts)
	}

	return starts, nil
}

// windowRanges каждое открытое окно как отдельный диапазон
// Шаг отсчитывается от открытия своего окна, а не от начала дня
func windowRanges(open []domain.OperatingWindow) []domain.TimeRange {
	ranges := make([]domain.TimeRange, 0, len(open))
	for _, w := range open {
		ranges = append(ranges, domain.TimeRange{Start: w.OpenTime, End: w.CloseTime})
	}
	return ranges
}

func containedInAny(open []domain.OperatingWindow, start, end types.TimeString) bool {
	for _, w := range open {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
