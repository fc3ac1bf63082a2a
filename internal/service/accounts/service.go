package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/geocoder89/userhub/internal/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/geocoder89/userhub/internal/service/accounts")

// Store is the persistence contract the service needs. Implementations return
// account.ErrNotFound and account.ErrEmailExists for the matching cases.
type Store interface {
	List(ctx context.Context) ([]account.Account, error)
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Create(ctx context.Context, p account.CreateParams) (account.Account, error)
	Update(ctx context.Context, a account.Account) (account.Account, error)
	Delete(ctx context.Context, id string) error
}

type Hasher interface {
	Hash(plain string) (string, error)
}

// Service owns validation, uniqueness checks, hashing and mutation of accounts.
// Every check runs before the first write, so a failed call never leaves a partial change.
type Service struct {
	store     Store
	hasher    Hasher
	validator *validation.Validator
	log       *slog.Logger
}

func New(store Store, hasher Hasher, validator *validation.Validator, log *slog.Logger) *Service {
	if validator == nil {
		validator = validation.New()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		store:     store,
		hasher:    hasher,
		validator: validator,
		log:       log,
	}
}

func (s *Service) Create(ctx context.Context, in account.CreateInput) (_ account.View, err error) {
	ctx, span := tracer.Start(ctx, "accounts.Create")
	defer func() { endSpan(span, err) }()

	if fields := s.validator.Fields(in); fields != nil {
		return account.View{}, &account.ValidationError{Fields: fields}
	}

	_, err = s.store.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return account.View{}, &account.ConflictError{Email: in.Email}
	case !errors.Is(err, account.ErrNotFound):
		return account.View{}, s.storeError(ctx, "accounts.create.lookup_email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return account.View{}, s.storeError(ctx, "accounts.create.hash", err)
	}

	created, err := s.store.Create(ctx, account.CreateParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// the storage constraint catches a concurrent insert the lookup above missed
		if errors.Is(err, account.ErrEmailExists) {
			return account.View{}, &account.ConflictError{Email: in.Email}
		}
		return account.View{}, s.storeError(ctx, "accounts.create.insert", err)
	}

	span.SetAttributes(attribute.String("account.id", created.ID))

	return created.View(), nil
}

func (s *Service) List(ctx context.Context) (_ []account.View, err error) {
	ctx, span := tracer.Start(ctx, "accounts.List")
	defer func() { endSpan(span, err) }()

	all, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "accounts.list", err)
	}

	return account.Views(all), nil
}

func (s *Service) Get(ctx context.Context, id string) (_ account.View, err error) {
	ctx, span := tracer.Start(ctx, "accounts.Get", trace.WithAttributes(attribute.String("account.id", id)))
	defer func() { endSpan(span, err) }()

	a, err := s.load(ctx, "accounts.get", id)
	if err != nil {
		return account.View{}, err
	}

	return a.View(), nil
}

func (s *Service) Update(ctx context.Context, id string, in account.UpdateInput) (_ account.View, err error) {
	ctx, span := tracer.Start(ctx, "accounts.Update", trace.WithAttributes(attribute.String("account.id", id)))
	defer func() { endSpan(span, err) }()

	if fields := s.validator.Fields(in); fields != nil {
		return account.View{}, &account.ValidationError{Fields: fields}
	}

	if in.Email != nil {
		holder, err := s.store.GetByEmail(ctx, *in.Email)
		switch {
		case err == nil:
			// keeping your own email is not a conflict
			if holder.ID != id {
				return account.View{}, &account.ConflictError{Email: *in.Email}
			}
		case !errors.Is(err, account.ErrNotFound):
			return account.View{}, s.storeError(ctx, "accounts.update.lookup_email", err)
		}
	}

	current, err := s.load(ctx, "accounts.update.load", id)
	if err != nil {
		return account.View{}, err
	}

	if in.Name != nil {
		current.Name = *in.Name
	}
	if in.Email != nil {
		current.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return account.View{}, s.storeError(ctx, "accounts.update.hash", err)
		}
		current.PasswordHash = hash
	}

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrEmailExists):
			return account.View{}, &account.ConflictError{Email: current.Email}
		case errors.Is(err, account.ErrNotFound):
			return account.View{}, &account.NotFoundError{ID: id}
		}
		return account.View{}, s.storeError(ctx, "accounts.update.save", err)
	}

	return updated.View(), nil
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracer.Start(ctx, "accounts.Delete", trace.WithAttributes(attribute.String("account.id", id)))
	defer func() { endSpan(span, err) }()

	if _, err = s.load(ctx, "accounts.delete.load", id); err != nil {
		return err
	}

	err = s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return &account.NotFoundError{ID: id}
		}
		return s.storeError(ctx, "accounts.delete", err)
	}

	return nil
}

func (s *Service) load(ctx context.Context, op, id string) (account.Account, error) {
	if id == "" {
		return account.Account{}, &account.NotFoundError{ID: id}
	}

	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, &account.NotFoundError{ID: id}
		}
		return account.Account{}, s.storeError(ctx, op, err)
	}

	return a, nil
}

func (s *Service) storeError(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "account store failure", "op", op, "err", err)

	return &account.StoreError{Op: op, Err: err}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		var verr *account.ValidationError
		var cerr *account.ConflictError
		var nerr *account.NotFoundError

		// client-side outcomes are recorded but do not mark the span as failed
		if errors.As(err, &verr) || errors.As(err, &cerr) || errors.As(err, &nerr) {
			span.SetAttributes(attribute.String("account.outcome", err.Error()))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	span.End()
}
