package formstore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/utils"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type failingBackend struct{}

var errDisabled = errors.New("storage disabled")

func (failingBackend) Get(context.Context, string) (string, error) { return "", errDisabled }
func (failingBackend) Set(context.Context, string, string) error   { return errDisabled }
func (failingBackend) Delete(context.Context, string) error         { return errDisabled }

// undeletableBackend stores snapshots but cannot delete them.
type undeletableBackend struct {
	*MemoryBackend
}

func (undeletableBackend) Delete(context.Context, string) error { return errDisabled }

func TestRestoreMergesOverInitial(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "split-expense-form", `{"totalAmount":"50"}`))

	store := NewStore(backend, quietLogger())
	initial := models.NewSplitExpenseForm("Me")
	initial.Description = "Dinner"

	got := Restore(ctx, store, "split-expense-form", initial)
	assert.Equal(t, "50", got.TotalAmount)
	assert.Equal(t, "Me", got.RequesterName)
	assert.Equal(t, "Dinner", got.Description)
	assert.Equal(t, []models.Participant{{}}, got.Participants)
	assert.Empty(t, got.PaymentStatus)
}

func TestRestoreMergeIsShallow(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "k", `{"paymentStatus":{"1":"paid"}}`))

	initial := models.NewSplitExpenseForm("")
	initial.PaymentStatus = map[int]models.PaymentStatus{0: models.PaymentRequested}

	got := Restore(ctx, NewStore(backend, quietLogger()), "k", initial)
	assert.Equal(t, map[int]models.PaymentStatus{1: models.PaymentPaid}, got.PaymentStatus)
}

func TestRestoreFallsBackToInitial(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "broken", `{"totalAmount":`))
	require.NoError(t, backend.Set(ctx, "wrong-type", `{"participants":"nobody"}`))
	store := NewStore(backend, quietLogger())

	initial := models.NewSplitExpenseForm("Me")
	assert.Equal(t, initial, Restore(ctx, store, "missing", initial))
	assert.Equal(t, initial, Restore(ctx, store, "broken", initial))
	assert.Equal(t, initial, Restore(ctx, store, "wrong-type", initial))
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	form := models.NewSplitExpenseForm("Me")
	form.TotalAmount = "1200"
	form.Participants = []models.Participant{{Name: "Alice", PhoneNumber: "919111111111"}}
	form.PaymentStatus[0] = models.PaymentRequested

	NewStore(backend, quietLogger()).Persist(ctx, "k", form)

	// a fresh store has an empty mirror and must read the durable copy
	got := Restore(ctx, NewStore(backend, quietLogger()), "k", models.NewSplitExpenseForm(""))
	assert.Equal(t, form, got)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewStore(backend, quietLogger())

	form := models.NewSplitExpenseForm("Me")
	form.TotalAmount = "10"
	store.Persist(ctx, "k", form)

	initial := models.NewSplitExpenseForm("Me")
	assert.Equal(t, initial, Clear(ctx, store, "k", initial))
	assert.Equal(t, initial, Restore(ctx, store, "k", initial))

	_, err := backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFailingBackendDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingBackend{}, quietLogger())

	form := models.NewSplitExpenseForm("Me")
	form.TotalAmount = "75"

	assert.NotPanics(t, func() { store.Persist(ctx, "k", form) })
	assert.Equal(t, "75", Restore(ctx, store, "k", models.NewSplitExpenseForm("")).TotalAmount)

	initial := models.NewSplitExpenseForm("")
	assert.Equal(t, initial, Clear(ctx, store, "k", initial))
	assert.Equal(t, initial, Restore(ctx, store, "k", initial))
}

func TestClearSurvivesFailedDelete(t *testing.T) {
	ctx := context.Background()
	backend := undeletableBackend{NewMemoryBackend()}
	store := NewStore(backend, quietLogger())

	form := models.NewSplitExpenseForm("Me")
	form.TotalAmount = "999"
	store.Persist(ctx, "k", form)

	initial := models.NewSplitExpenseForm("Me")
	assert.Equal(t, initial, Clear(ctx, store, "k", initial))

	_, err := backend.Get(ctx, "k")
	require.NoError(t, err, "durable copy is still there")
	assert.Equal(t, "", Restore(ctx, store, "k", initial).TotalAmount)

	form.TotalAmount = "5"
	store.Persist(ctx, "k", form)
	assert.Equal(t, "5", Restore(ctx, store, "k", initial).TotalAmount)
}

func TestEncryptedSnapshots(t *testing.T) {
	ctx := context.Background()
	key, err := utils.ParseKey("a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6")
	require.NoError(t, err)
	backend := NewMemoryBackend()

	form := models.NewSplitExpenseForm("Me")
	form.RequesterUpiID = "me@upi"
	NewStore(backend, quietLogger(), WithEncryption(key)).Persist(ctx, "k", form)

	raw, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.NotContains(t, raw, "me@upi")

	got := Restore(ctx, NewStore(backend, quietLogger(), WithEncryption(key)), "k", models.NewSplitExpenseForm(""))
	assert.Equal(t, "me@upi", got.RequesterUpiID)

	// plaintext written before encryption was enabled is unreadable, not fatal
	require.NoError(t, backend.Set(ctx, "plain", `{"totalAmount":"5"}`))
	initial := models.NewSplitExpenseForm("")
	assert.Equal(t, initial, Restore(ctx, NewStore(backend, quietLogger(), WithEncryption(key)), "plain", initial))
}

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "forms", "forms.db"))
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Set(ctx, "k", `{"totalAmount":"1"}`))
	require.NoError(t, backend.Set(ctx, "k", `{"totalAmount":"2"}`))

	v, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"totalAmount":"2"}`, v)

	store := NewStore(backend, quietLogger())
	assert.Equal(t, "2", Restore(ctx, store, "k", models.NewSplitExpenseForm("")).TotalAmount)

	require.NoError(t, backend.Delete(ctx, "k"))
	_, err = backend.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}
