package schedule

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/schedule/models"
)

// Service сервис для работы с рабочими окнами бизнеса
type Service struct {
	hoursRepo OperatingHoursRepository
	tx        TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(hoursRepo OperatingHoursRepository, tx TransactionManager, logger Logger) *Service {
	return &Service{
		hoursRepo: hoursRepo,
		tx:        tx,
		logger:    logger,
	}
}

// Get получает недельное расписание бизнеса
func (s *Service) Get(ctx context.Context, businessID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching operating hours for business=%d", businessID)

	if businessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	windows, err := s.hoursRepo.GetByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: fetched %d windows for business=%d", len(windows), businessID)
	return models.FromDomainWindows(businessID, windows), nil
}

// Replace полностью заменяет недельное расписание бизнеса
// Окна одного дня не должны пересекаться, sequence уникален в пределах дня
func (s *Service) Replace(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Replace: replacing operating hours for business=%d, windows=%d", req.BusinessID, len(req.Windows))

	// 1. Валидируем входные данные
	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	windows, err := req.ToDomainWindows()
	if err != nil {
		s.logger.Warn("Replace: invalid windows: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validateWeek(windows); err != nil {
		s.logger.Warn("Replace: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 2. Сохраняем расписание и перечитываем его в той же транзакции
	var saved []domain.OperatingWindow
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.hoursRepo.ReplaceForBusiness(txCtx, req.BusinessID, windows); err != nil {
			return err
		}
		var err error
		saved, err = s.hoursRepo.GetByBusiness(txCtx, req.BusinessID)
		return err
	})
	if err != nil {
		s.logger.Error("Replace: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Replace - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Replace: saved %d windows for business=%d", len(saved), req.BusinessID)
	return models.FromDomainWindows(req.BusinessID, saved), nil
}

// validateWeek проверяет расписание по дням недели
func validateWeek(windows []domain.OperatingWindow) error {
	byDay := make(map[domain.DayOfWeek][]domain.OperatingWindow)
	for _, w := range windows {
		if !w.DayOfWeek.IsValid() {
			return fmt.Errorf("%w: invalid day of week %d", ErrInvalidInput, int(w.DayOfWeek))
		}
		byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
	}

	for _, day := range domain.AllDays {
		dayWindows := byDay[day]
		if len(dayWindows) > domain.MaxWindowsPerDay {
			return fmt.Errorf("%w: %s has %d windows, max %d", ErrInvalidInput, day, len(dayWindows), domain.MaxWindowsPerDay)
		}

		sequences := make(map[int]struct{}, len(dayWindows))
		for _, w := range dayWindows {
			if _, dup := sequences[w.Sequence]; dup {
				return fmt.Errorf("%w: %s has duplicate sequence %d", ErrInvalidInput, day, w.Sequence)
			}
			sequences[w.Sequence] = struct{}{}
		}

		if err := domain.ValidateDaySchedule(dayWindows); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, day, err)
		}
	}

	return nil
}
