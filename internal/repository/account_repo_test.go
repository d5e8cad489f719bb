package repository

import (
	"testing"
	"time"

	"go-pos-core/internal/model"
	"go-pos-core/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(username string) *model.Account {
	return &model.Account{Username: username, PasswordHash: "hash", Role: model.RoleStaff}
}

func TestAccountCreateNormalizesAndRejectsDuplicates(t *testing.T) {
	repo := NewAccountRepo(testdb.Open(t))

	a := newAccount("  Cashier1 ")
	require.NoError(t, repo.Create(a))
	assert.Equal(t, "cashier1", a.Username)

	assert.ErrorIs(t, repo.Create(newAccount("CASHIER1")), ErrDuplicateUsername)

	got, err := repo.FindByUsername("Cashier1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestAccountProfileAndSession(t *testing.T) {
	repo := NewAccountRepo(testdb.Open(t))
	a := newAccount("ana")
	require.NoError(t, repo.Create(a))

	a.Role = model.RoleAdmin
	a.FirstName = "Ana"
	a.PasswordHash = "must-not-change-here"
	require.NoError(t, repo.UpdateProfile(a))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.UpdateSession(a.ID, "v2", at))

	got, err := repo.FindByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "v2", got.TokenVersion)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))

	assert.ErrorIs(t, repo.UpdatePassword(999, "x"), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateTokenVersion(999, "x"), ErrNotFound)
}

func TestAccountReferencesAndDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := NewAccountRepo(db)
	a := newAccount("ana")
	require.NoError(t, repo.Create(a))

	n, err := repo.CountReferences(a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	p := newProduct("P0", 1, 0)
	require.NoError(t, NewProductRepo(db).Create(p))
	require.NoError(t, db.Create(&model.StockAdjustment{ProductID: p.ID, QtyDelta: 1, StockAfter: 2, CreatedBy: a.ID, CreatedAt: time.Now().UTC()}).Error)

	n, err = repo.CountReferences(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b := newAccount("bob")
	require.NoError(t, repo.Create(b))
	require.NoError(t, repo.Delete(b.ID))
	_, err = repo.FindByID(b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(b.ID), ErrNotFound)
}
