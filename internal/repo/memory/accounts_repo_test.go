package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountsRepo_CreateAssignsIDAndEnforcesEmail(t *testing.T) {
	ctx := context.Background()
	r := NewAccountsRepo()

	a, err := r.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	_, err = r.Create(ctx, account.CreateParams{Name: "Other", Email: "ann@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, account.ErrEmailExists)

	got, err := r.GetByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestAccountsRepo_UpdateMovesEmailIndex(t *testing.T) {
	ctx := context.Background()
	r := NewAccountsRepo()

	a, err := r.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	b, err := r.Create(ctx, account.CreateParams{Name: "Bob", Email: "bob@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	a.Email = "bob@x.com"
	_, err = r.Update(ctx, a)
	assert.ErrorIs(t, err, account.ErrEmailExists)

	a.Email = "ann@y.com"
	updated, err := r.Update(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "ann@y.com", updated.Email)

	_, err = r.GetByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, account.ErrNotFound)

	got, err := r.GetByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestAccountsRepo_DeleteAndIDsNotReused(t *testing.T) {
	ctx := context.Background()
	r := NewAccountsRepo()

	a, err := r.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.ErrorIs(t, r.Delete(ctx, a.ID), account.ErrNotFound)

	_, err = r.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, account.ErrNotFound)

	again, err := r.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, again.ID)
}

func TestAccountsRepo_ConcurrentCreatesKeepEmailUnique(t *testing.T) {
	ctx := context.Background()
	r := NewAccountsRepo()

	var wg sync.WaitGroup
	errs := make(chan error, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.com", PasswordHash: "h"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}

	assert.Equal(t, 1, ok)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
