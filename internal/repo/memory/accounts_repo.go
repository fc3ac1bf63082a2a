package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/google/uuid"
)

// AccountsRepo keeps accounts in process memory. Email uniqueness is enforced
// under the same lock as the write, mirroring a storage-level unique constraint.
type AccountsRepo struct {
	mu      sync.RWMutex
	items   map[string]account.Account // id -> account
	byEmail map[string]string          // email -> id
}

func NewAccountsRepo() *AccountsRepo {
	return &AccountsRepo{
		items:   make(map[string]account.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountsRepo) Create(_ context.Context, p account.CreateParams) (account.Account, error) {
	now := time.Now().UTC()

	a := account.Account{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[a.Email]; taken {
		return account.Account{}, account.ErrEmailExists
	}

	r.items[a.ID] = a
	r.byEmail[a.Email] = a.ID

	return a, nil
}

func (r *AccountsRepo) List(_ context.Context) ([]account.Account, error) {
	r.mu.RLock()
	out := make([]account.Account, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *AccountsRepo) GetByID(_ context.Context, id string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	return a, nil
}

func (r *AccountsRepo) GetByEmail(_ context.Context, email string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	return r.items[id], nil
}

func (r *AccountsRepo) Update(_ context.Context, a account.Account) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[a.ID]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}

	if holder, taken := r.byEmail[a.Email]; taken && holder != a.ID {
		return account.Account{}, account.ErrEmailExists
	}

	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now().UTC()

	delete(r.byEmail, current.Email)
	r.byEmail[a.Email] = a.ID
	r.items[a.ID] = a

	return a, nil
}

func (r *AccountsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return account.ErrNotFound
	}

	delete(r.items, id)
	delete(r.byEmail, a.Email)

	return nil
}

// Ping lets the memory store satisfy readiness checks.
func (r *AccountsRepo) Ping(context.Context) error {
	return nil
}
