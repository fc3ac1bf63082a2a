package cached

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/domain/account"
)

// Store is the subset of the account store the decorator wraps.
type Store interface {
	List(ctx context.Context) ([]account.Account, error)
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Create(ctx context.Context, p account.CreateParams) (account.Account, error)
	Update(ctx context.Context, a account.Account) (account.Account, error)
	Delete(ctx context.Context, id string) error
}

type Observer interface {
	ObserveCache(hit bool)
}

// AccountsRepo is a read-through cache over an account store. Only lookups by ID
// are cached; every write through it drops the cached row.
//
// Each id carries a generation bumped on every invalidation. A miss only fills
// the cache if the generation it started under is still current, so a read that
// raced a write never puts the old row back.
type AccountsRepo struct {
	next  Store
	cache cache.Cache
	obs   Observer

	mu  sync.Mutex
	gen map[string]uint64
}

func NewAccountsRepo(next Store, c cache.Cache, obs Observer) *AccountsRepo {
	return &AccountsRepo{next: next, cache: c, obs: obs, gen: make(map[string]uint64)}
}

// record mirrors account.Account with the hash serialized; Account hides it from JSON.
type record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func key(id string) string {
	return "account:" + id
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (account.Account, error) {
	if b, ok := r.cache.Get(ctx, key(id)); ok {
		var rec record
		if err := json.Unmarshal(b, &rec); err == nil {
			r.observe(true)
			return account.Account(rec), nil
		}
		r.cache.Delete(ctx, key(id))
	}
	r.observe(false)

	r.mu.Lock()
	started := r.gen[id]
	r.mu.Unlock()

	a, err := r.next.GetByID(ctx, id)
	if err != nil {
		return account.Account{}, err
	}

	if b, err := json.Marshal(record(a)); err == nil {
		r.mu.Lock()
		if r.gen[id] == started {
			r.cache.Set(ctx, key(id), b)
		}
		r.mu.Unlock()
	}

	return a, nil
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	return r.next.GetByEmail(ctx, email)
}

func (r *AccountsRepo) List(ctx context.Context) ([]account.Account, error) {
	return r.next.List(ctx)
}

func (r *AccountsRepo) Create(ctx context.Context, p account.CreateParams) (account.Account, error) {
	return r.next.Create(ctx, p)
}

func (r *AccountsRepo) Update(ctx context.Context, a account.Account) (account.Account, error) {
	r.invalidate(ctx, a.ID)
	defer r.invalidate(ctx, a.ID)

	return r.next.Update(ctx, a)
}

func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	r.invalidate(ctx, id)
	defer r.invalidate(ctx, id)

	return r.next.Delete(ctx, id)
}

func (r *AccountsRepo) invalidate(ctx context.Context, id string) {
	r.mu.Lock()
	r.gen[id]++
	r.cache.Delete(ctx, key(id))
	r.mu.Unlock()
}

func (r *AccountsRepo) observe(hit bool) {
	if r.obs != nil {
		r.obs.ObserveCache(hit)
	}
}
