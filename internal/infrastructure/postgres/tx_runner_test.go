package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeTx registra Commit/Rollback. El resto de pgx.Tx no se usa en estas pruebas.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
	closed    bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.commits++
	if t.commitErr != nil {
		return t.commitErr
	}
	t.closed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.rollbacks++
	t.closed = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_CommitSinError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	err := postgres.NewTxRunner(b).Run(context.Background(), func(r repository.Repos) error {
		assert.NotNil(t, r.Jobs, "los repos deben venir atados a la tx")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.tx.commits)
	assert.Equal(t, 0, b.tx.rollbacks, "tras Commit el Rollback diferido es no-op")
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("boom")
	err := postgres.NewTxRunner(b).Run(context.Background(), func(repository.Repos) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, b.tx.commits)
	assert.Equal(t, 1, b.tx.rollbacks, "la tx se libera aunque fn falle")
}

func TestTxRunner_RollbackEnPanico(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	assert.Panics(t, func() {
		_ = postgres.NewTxRunner(b).Run(context.Background(), func(repository.Repos) error { panic("boom") })
	})
	assert.Equal(t, 1, b.tx.rollbacks, "la tx se libera aunque fn entre en pánico")
}

func TestTxRunner_ErrorEnCommit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("conexión perdida")}}
	err := postgres.NewTxRunner(b).Run(context.Background(), func(repository.Repos) error { return nil })

	assert.Error(t, err)
	assert.Equal(t, 1, b.tx.rollbacks, "si Commit falla se intenta Rollback")
}

func TestTxRunner_ErrorEnBegin(t *testing.T) {
	b := &fakeBeginner{err: errors.New("sin conexiones")}
	called := false
	err := postgres.NewTxRunner(b).Run(context.Background(), func(repository.Repos) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestApplyMigrations_DSNNoURL(t *testing.T) {
	err := postgres.ApplyMigrations("host=localhost user=postgres")
	assert.Error(t, err, "golang-migrate necesita una URL")
}
