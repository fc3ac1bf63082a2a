package postgres

import (
	"context"
	"time"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, name, email, password_hash, created_at, updated_at`

type AccountsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAccountsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AccountsRepo {
	return &AccountsRepo{pool: pool, prom: prom}
}

func (r *AccountsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *AccountsRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *AccountsRepo) Create(ctx context.Context, p account.CreateParams) (account.Account, error) {
	now := time.Now().UTC()

	a := account.Account{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
		)
		return mapError(err)
	})

	if err != nil {
		return account.Account{}, err
	}

	return a, nil
}

func (r *AccountsRepo) List(ctx context.Context) ([]account.Account, error) {
	out := make([]account.Account, 0)

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM users ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAccount(rows)
			if err != nil {
				return err
			}
			out = append(out, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AccountsRepo) GetByID(ctx context.Context, id string) (account.Account, error) {
	// ids are UUIDs; anything else cannot match a row
	if _, err := uuid.Parse(id); err != nil {
		return account.Account{}, account.ErrNotFound
	}

	var a account.Account

	err := r.observe("users.get_by_id", func() error {
		var err error
		a, err = scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id))
		return mapError(err)
	})

	return a, err
}

func (r *AccountsRepo) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	var a account.Account

	err := r.observe("users.get_by_email", func() error {
		var err error
		a, err = scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users WHERE email = $1`, email))
		return mapError(err)
	})

	return a, err
}

func (r *AccountsRepo) Update(ctx context.Context, in account.Account) (account.Account, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return account.Account{}, account.ErrNotFound
	}

	var a account.Account

	err := r.observe("users.update", func() error {
		var err error
		a, err = scanAccount(r.pool.QueryRow(ctx,
			`UPDATE users
				SET name = $2,
					email = $3,
					password_hash = $4,
					updated_at = NOW()
			WHERE id = $1
			RETURNING `+accountColumns,
			in.ID, in.Name, in.Email, in.PasswordHash,
		))
		return mapError(err)
	})

	return a, err
}

func (r *AccountsRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return account.ErrNotFound
	}

	return r.observe("users.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}

		// if no rows were deleted the account was already gone
		if tag.RowsAffected() == 0 {
			return account.ErrNotFound
		}

		return nil
	})
}

func scanAccount(row pgx.Row) (account.Account, error) {
	var a account.Account

	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return account.Account{}, err
	}

	return a, nil
}
