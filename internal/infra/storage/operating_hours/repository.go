package operating_hours

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с рабочими окнами бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочих окон
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndDay получает окна бизнеса на день недели, упорядоченные по sequence
func (r *Repository) GetByBusinessAndDay(ctx context.Context, businessID int64, day domain.DayOfWeek) ([]domain.OperatingWindow, error) {
	return r.list(ctx, "GetByBusinessAndDay", squirrel.Eq{"business_id": businessID, "day_of_week": int(day)})
}

// GetByBusiness получает всё недельное расписание бизнеса
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) ([]domain.OperatingWindow, error) {
	return r.list(ctx, "GetByBusiness", squirrel.Eq{"business_id": businessID})
}

// ReplaceForBusiness полностью заменяет недельное расписание бизнеса
// Если транзакции в контексте нет, открывает собственную
func (r *Repository) ReplaceForBusiness(ctx context.Context, businessID int64, windows []domain.OperatingWindow) (err error) {
	if !dbmetrics.IsInTransaction(ctx) {
		var txCtx context.Context
		var tx TxExecutor
		txCtx, tx, err = r.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if commitErr := tx.Commit(); commitErr != nil {
				err = fmt.Errorf("%w: ReplaceForBusiness - commit: %v", ErrTransaction, commitErr)
			}
		}()
		ctx = txCtx
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("operating_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("operating_hours").
		Columns("business_id", "day_of_week", "sequence", "open_time", "close_time", "is_closed")

	for _, w := range windows {
		insertBuilder = insertBuilder.Values(businessID, int(w.DayOfWeek), w.Sequence, w.OpenTime, w.CloseTime, w.IsClosed)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Eq) ([]domain.OperatingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"day_of_week",
		"sequence",
		"open_time",
		"close_time",
		"is_closed",
	).
		From("operating_hours").
		Where(where).
		OrderBy("day_of_week ASC", "sequence ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	windows := make([]domain.OperatingWindow, 0)
	for rows.Next() {
		var w domain.OperatingWindow
		var day int
		if err := rows.Scan(&w.ID, &w.BusinessID, &day, &w.Sequence, &w.OpenTime, &w.CloseTime, &w.IsClosed); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		w.DayOfWeek = domain.DayOfWeek(day)
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return windows, nil
}

// BeginTx начинает новую транзакцию и возвращает контекст с ней
func (r *Repository) BeginTx(ctx context.Context, opts *sql.TxOptions) (context.Context, TxExecutor, error) {
	// Пытаемся привести к TxBeginner интерфейсу (dbmetrics.DB реализует этот интерфейс)
	if txBeginner, ok := r.db.(TxBeginner); ok {
		tx, err := txBeginner.BeginTx(ctx, opts)
		if err != nil {
			return ctx, nil, fmt.Errorf("%w: BeginTx: %v", ErrTransaction, err)
		}
		return dbmetrics.WithTx(ctx, tx), tx, nil
	}

	// Fallback для обычного *sql.DB
	if db, ok := r.db.(*sql.DB); ok {
		tx, err := db.BeginTx(ctx, opts)
		if err != nil {
			return ctx, nil, fmt.Errorf("%w: BeginTx: %v", ErrTransaction, err)
		}
		wrappedTx := &dbmetrics.SqlTxWrapper{Tx: tx}
		return dbmetrics.WithTx(ctx, wrappedTx), wrappedTx, nil
	}

	return ctx, nil, fmt.Errorf("%w: db type not supported", ErrTransaction)
}
