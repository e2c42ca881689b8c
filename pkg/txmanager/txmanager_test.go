package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx      *fakeTx
	opts    *sql.TxOptions
	begins  int
	beginEr error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	b.opts = opts
	if b.beginEr != nil {
		return nil, b.beginEr
	}
	return b.tx, nil
}

func TestManager_DoSerializable(t *testing.T) {
	t.Run("CommitsOnSuccess", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, logger.Nop())

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(ctx))
			return nil
		})

		require.NoError(t, err)
		assert.True(t, b.tx.committed)
		assert.False(t, b.tx.rolledBack)
		assert.Equal(t, sql.LevelSerializable, b.opts.Isolation)
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, logger.Nop())
		fnErr := errors.New("boom")

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return fnErr
		})

		assert.ErrorIs(t, err, fnErr)
		assert.True(t, b.tx.rolledBack)
		assert.False(t, b.tx.committed)
	})

	t.Run("NestedCallReusesTransaction", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{}}
		m := New(b, logger.Nop())

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return m.Do(ctx, func(context.Context) error { return nil })
		})

		require.NoError(t, err)
		assert.Equal(t, 1, b.begins)
	})

	t.Run("BeginFailure", func(t *testing.T) {
		b := &fakeBeginner{beginEr: errors.New("connection refused")}
		m := New(b, logger.Nop())

		err := m.Do(context.Background(), func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrBeginTx)
	})

	t.Run("SerializationConflictOnCommitIsTransient", func(t *testing.T) {
		b := &fakeBeginner{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
		m := New(b, logger.Nop())

		err := m.DoSerializable(context.Background(), func(context.Context) error { return nil })
		assert.True(t, IsTransient(err))
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&pq.Error{Code: "40001"}))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, IsTransient(&pq.Error{Code: "23505"}))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(fmt.Errorf("%w: memory store", ErrConflict)))
}
