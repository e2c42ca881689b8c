package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

type txKey struct {
	store *Store
}

// Store in-memory хранилище слотов, бронирований и рабочих окон
// Транзакции сериализуются одним мьютексом, откат восстанавливает снимок данных.
// Возвращает те же ошибки, что и postgres-репозитории
type Store struct {
	mu sync.Mutex

	nextSlotID        int64
	nextReservationID int64
	nextWindowID      int64

	slots        map[int64]domain.Slot
	slotKeys     map[domain.SlotKey]int64
	reservations map[int64]domain.Reservation
	windows      map[int64][]domain.OperatingWindow

	conflicts int
	now       func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		slots:        make(map[int64]domain.Slot),
		slotKeys:     make(map[domain.SlotKey]int64),
		reservations: make(map[int64]domain.Reservation),
		windows:      make(map[int64][]domain.OperatingWindow),
		now:          time.Now,
	}
}

// InjectConflicts заставляет следующие n транзакций завершиться конфликтом сериализации
func (s *Store) InjectConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

// Slots репозиторий слотов поверх хранилища
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{s: s}
}

// Reservations репозиторий бронирований поверх хранилища
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{s: s}
}

// OperatingHours репозиторий рабочих окон поверх хранилища
func (s *Store) OperatingHours() *OperatingHoursRepository {
	return &OperatingHoursRepository{s: s}
}

// Do выполняет fn в транзакции
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции. Все транзакции хранилища сериализуемы
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, txKey{store: s}, true))
	if err == nil && s.conflicts > 0 {
		s.conflicts--
		err = fmt.Errorf("%w: memory store commit", txmanager.ErrConflict)
	}
	if err != nil {
		s.restore(snap)
		return err
	}

	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{store: s}).(bool)
	return v
}

// withLock выполняет fn под мьютексом хранилища, если вызов не внутри транзакции
func (s *Store) withLock(ctx context.Context, fn func()) {
	if s.inTx(ctx) {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

type snapshot struct {
	nextSlotID        int64
	nextReservationID int64
	nextWindowID      int64
	slots             map[int64]domain.Slot
	slotKeys          map[domain.SlotKey]int64
	reservations      map[int64]domain.Reservation
	windows           map[int64][]domain.OperatingWindow
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		nextSlotID:        s.nextSlotID,
		nextReservationID: s.nextReservationID,
		nextWindowID:      s.nextWindowID,
		slots:             make(map[int64]domain.Slot, len(s.slots)),
		slotKeys:          make(map[domain.SlotKey]int64, len(s.slotKeys)),
		reservations:      make(map[int64]domain.Reservation, len(s.reservations)),
		windows:           make(map[int64][]domain.OperatingWindow, len(s.windows)),
	}
	for k, v := range s.slots {
		snap.slots[k] = v
	}
	for k, v := range s.slotKeys {
		snap.slotKeys[k] = v
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	for k, v := range s.windows {
		snap.windows[k] = append([]domain.OperatingWindow(nil), v...)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.nextSlotID = snap.nextSlotID
	s.nextReservationID = snap.nextReservationID
	s.nextWindowID = snap.nextWindowID
	s.slots = snap.slots
	s.slotKeys = snap.slotKeys
	s.reservations = snap.reservations
	s.windows = snap.windows
}

// SlotRepository слоты in-memory хранилища
type SlotRepository struct {
	s *Store
}

// CreateIfNotExists сохраняет слот, дубликат по естественному ключу пропускается
func (r *SlotRepository) CreateIfNotExists(ctx context.Context, slot *domain.Slot) (bool, error) {
	created := false
	r.s.withLock(ctx, func() {
		key := slot.Key()
		if _, exists := r.s.slotKeys[key]; exists {
			return
		}
		r.s.nextSlotID++
		now := r.s.now()
		slot.ID = r.s.nextSlotID
		slot.CreatedAt = now
		slot.UpdatedAt = now
		r.s.slots[slot.ID] = *slot
		r.s.slotKeys[key] = slot.ID
		created = true
	})
	return created, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	var (
		slot domain.Slot
		ok   bool
	)
	r.s.withLock(ctx, func() {
		slot, ok = r.s.slots[id]
	})
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &slot, nil
}

// List получает слоты бизнеса за период, отсортированные по дате и времени начала
func (r *SlotRepository) List(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	from := filter.StartDate.Format(domain.DateFormat)
	to := filter.EndDate.Format(domain.DateFormat)

	result := make([]*domain.Slot, 0)
	r.s.withLock(ctx, func() {
		for _, slot := range r.s.slots {
			date := slot.Date.Format(domain.DateFormat)
			if slot.BusinessID != filter.BusinessID || date < from || date > to {
				continue
			}
			if filter.ServiceID != nil && slot.ServiceID != *filter.ServiceID {
				continue
			}
			if filter.OnlyAvailable && !slot.IsAvailable {
				continue
			}
			s := slot
			result = append(result, &s)
		}
	})

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateAvailability меняет флаг доступности слота
func (r *SlotRepository) UpdateAvailability(ctx context.Context, id int64, isAvailable bool) error {
	var err error
	r.s.withLock(ctx, func() {
		slot, ok := r.s.slots[id]
		if !ok {
			err = slotRepo.ErrSlotNotFound
			return
		}
		slot.IsAvailable = isAvailable
		slot.UpdatedAt = r.s.now()
		r.s.slots[id] = slot
	})
	return err
}

// Delete удаляет слот
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	var err error
	r.s.withLock(ctx, func() {
		slot, ok := r.s.slots[id]
		if !ok {
			err = slotRepo.ErrSlotNotFound
			return
		}
		delete(r.s.slots, id)
		delete(r.s.slotKeys, slot.Key())
	})
	return err
}

// ReservationRepository бронирования in-memory хранилища
type ReservationRepository struct {
	s *Store
}

// Create сохраняет новое бронирование
func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	r.s.withLock(ctx, func() {
		r.s.nextReservationID++
		now := r.s.now()
		reservation.ID = r.s.nextReservationID
		reservation.CreatedAt = now
		reservation.UpdatedAt = now
		r.s.reservations[reservation.ID] = *reservation
	})
	return reservation, nil
}

// GetByID получает бронирование по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var (
		reservation domain.Reservation
		ok          bool
	)
	r.s.withLock(ctx, func() {
		reservation, ok = r.s.reservations[id]
	})
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return &reservation, nil
}

// List получает бронирования по фильтру, новые даты первыми
func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	r.s.withLock(ctx, func() {
		for _, res := range r.s.reservations {
			if matchReservation(res, filter) {
				c := res
				result = append(result, &c)
			}
		}
	})

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.ReservationDate.Equal(b.ReservationDate) {
			return a.ReservationDate.After(b.ReservationDate)
		}
		if a.ReservationTime != b.ReservationTime {
			return a.ReservationTime.IsAfter(b.ReservationTime)
		}
		return a.ID > b.ID
	})

	return result, nil
}

// CountBySlot считает бронирования слота в указанных статусах
func (r *ReservationRepository) CountBySlot(ctx context.Context, slotID int64, statuses []domain.ReservationStatus) (int, error) {
	counts, err := r.CountBySlots(ctx, []int64{slotID}, statuses)
	if err != nil {
		return 0, err
	}
	return counts[slotID], nil
}

// CountBySlots считает бронирования в указанных статусах для набора слотов
func (r *ReservationRepository) CountBySlots(ctx context.Context, slotIDs []int64, statuses []domain.ReservationStatus) (map[int64]int, error) {
	wanted := make(map[int64]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = struct{}{}
	}

	counts := make(map[int64]int, len(slotIDs))
	r.s.withLock(ctx, func() {
		for _, res := range r.s.reservations {
			if res.SlotID == nil || !hasStatus(statuses, res.Status) {
				continue
			}
			if _, ok := wanted[*res.SlotID]; ok {
				counts[*res.SlotID]++
			}
		}
	})
	return counts, nil
}

// UpdateStatus сохраняет статус и поля отмены бронирования
func (r *ReservationRepository) UpdateStatus(ctx context.Context, reservation *domain.Reservation) error {
	return r.update(ctx, reservation.ID, func(stored *domain.Reservation) {
		stored.Status = reservation.Status
		stored.CancellationReason = reservation.CancellationReason
		stored.CancelledAt = reservation.CancelledAt
		stored.UpdatedAt = reservation.UpdatedAt
	})
}

// Update сохраняет редактируемые поля бронирования
func (r *ReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	return r.update(ctx, reservation.ID, func(stored *domain.Reservation) {
		stored.ReservationDate = reservation.ReservationDate
		stored.ReservationTime = reservation.ReservationTime
		stored.CustomerName = reservation.CustomerName
		stored.CustomerPhone = reservation.CustomerPhone
		stored.RequestNotes = reservation.RequestNotes
		stored.UpdatedAt = reservation.UpdatedAt
	})
}

func (r *ReservationRepository) update(ctx context.Context, id int64, apply func(stored *domain.Reservation)) error {
	var err error
	r.s.withLock(ctx, func() {
		stored, ok := r.s.reservations[id]
		if !ok {
			err = reservationRepo.ErrReservationNotFound
			return
		}
		apply(&stored)
		r.s.reservations[id] = stored
	})
	return err
}

// OperatingHoursRepository рабочие окна in-memory хранилища
type OperatingHoursRepository struct {
	s *Store
}

// GetByBusinessAndDay получает окна бизнеса на день недели, упорядоченные по sequence
func (r *OperatingHoursRepository) GetByBusinessAndDay(ctx context.Context, businessID int64, day domain.DayOfWeek) ([]domain.OperatingWindow, error) {
	result := make([]domain.OperatingWindow, 0)
	r.s.withLock(ctx, func() {
		for _, w := range r.s.windows[businessID] {
			if w.DayOfWeek == day {
				result = append(result, w)
			}
		}
	})
	sortWindows(result)
	return result, nil
}

// GetByBusiness получает всё недельное расписание бизнеса
func (r *OperatingHoursRepository) GetByBusiness(ctx context.Context, businessID int64) ([]domain.OperatingWindow, error) {
	var result []domain.OperatingWindow
	r.s.withLock(ctx, func() {
		result = append([]domain.OperatingWindow{}, r.s.windows[businessID]...)
	})
	sortWindows(result)
	return result, nil
}

// ReplaceForBusiness полностью заменяет недельное расписание бизнеса
func (r *OperatingHoursRepository) ReplaceForBusiness(ctx context.Context, businessID int64, windows []domain.OperatingWindow) error {
	r.s.withLock(ctx, func() {
		stored := make([]domain.OperatingWindow, len(windows))
		for i, w := range windows {
			r.s.nextWindowID++
			w.ID = r.s.nextWindowID
			w.BusinessID = businessID
			stored[i] = w
		}
		r.s.windows[businessID] = stored
	})
	return nil
}

func sortWindows(windows []domain.OperatingWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].DayOfWeek != windows[j].DayOfWeek {
			return windows[i].DayOfWeek < windows[j].DayOfWeek
		}
		return windows[i].Sequence < windows[j].Sequence
	})
}

func matchReservation(res domain.Reservation, f domain.ReservationsFilter) bool {
	if f.CustomerID != nil && res.CustomerID != *f.CustomerID {
		return false
	}
	if f.BusinessID != nil && res.BusinessID != *f.BusinessID {
		return false
	}
	if f.SlotID != nil && (res.SlotID == nil || *res.SlotID != *f.SlotID) {
		return false
	}
	date := res.ReservationDate.Format(domain.DateFormat)
	if f.StartDate != nil && date < f.StartDate.Format(domain.DateFormat) {
		return false
	}
	if f.EndDate != nil && date > f.EndDate.Format(domain.DateFormat) {
		return false
	}
	if len(f.Statuses) > 0 && !hasStatus(f.Statuses, res.Status) {
		return false
	}
	return true
}

func hasStatus(statuses []domain.ReservationStatus, status domain.ReservationStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
