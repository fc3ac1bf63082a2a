package cached

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*memory.AccountsRepo
	gets int
}

func (s *countingStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	s.gets++
	return s.AccountsRepo.GetByID(ctx, id)
}

type hits struct {
	hit, miss int
}

func (h *hits) ObserveCache(hit bool) {
	if hit {
		h.hit++
		return
	}
	h.miss++
}

func newRepo(t *testing.T) (*AccountsRepo, *countingStore, *hits) {
	t.Helper()

	base := &countingStore{AccountsRepo: memory.NewAccountsRepo()}
	obs := &hits{}

	return NewAccountsRepo(base, cache.NewMemory(time.Minute), obs), base, obs
}

func TestGetByID_ServesSecondReadFromCache(t *testing.T) {
	ctx := context.Background()
	repo, base, obs := newRepo(t)

	created, err := repo.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.io", PasswordHash: "h1"})
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, base.gets)
	assert.Equal(t, 1, obs.hit)
	assert.Equal(t, 1, obs.miss)
	assert.Equal(t, "h1", second.PasswordHash)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestUpdate_InvalidatesCachedRow(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newRepo(t)

	created, err := repo.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.io", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	created.Name = "Annie"
	created.PasswordHash = "h2"
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
	assert.Equal(t, "h2", got.PasswordHash)
}

func TestDelete_InvalidatesCachedRow(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := newRepo(t)

	created, err := repo.Create(ctx, account.CreateParams{Name: "Ann", Email: "ann@x.io", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestGetByID_MissIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo, base, _ := newRepo(t)

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, account.ErrNotFound)
	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, account.ErrNotFound)

	assert.Equal(t, 2, base.gets)
}

// pausingStore holds a GetByID after it has read the row until release is closed.
type pausingStore struct {
	*memory.AccountsRepo
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (s *pausingStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	a, err := s.AccountsRepo.GetByID(ctx, id)

	s.once.Do(func() {
		close(s.read)
		<-s.release
	})

	return a, err
}

func TestGetByID_ReadRacingUpdateDoesNotRefillOldRow(t *testing.T) {
	ctx := context.Background()

	base := &pausingStore{
		AccountsRepo: memory.NewAccountsRepo(),
		read:         make(chan struct{}),
		release:      make(chan struct{}),
	}
	repo := NewAccountsRepo(base, cache.NewMemory(time.Minute), nil)

	created, err := base.Create(ctx, account.CreateParams{Name: "Old", Email: "ann@x.io", PasswordHash: "h1"})
	require.NoError(t, err)

	done := make(chan account.Account)
	go func() {
		a, _ := repo.GetByID(ctx, created.ID)
		done <- a
	}()

	<-base.read

	changed := created
	changed.Name = "New"
	_, err = repo.Update(ctx, changed)
	require.NoError(t, err)

	close(base.release)
	assert.Equal(t, "Old", (<-done).Name)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", again.Name)
}
