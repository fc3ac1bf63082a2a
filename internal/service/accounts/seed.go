package accounts

import (
	"context"
	"errors"

	"github.com/geocoder89/userhub/internal/domain/account"
)

// EnsureSeed creates a bootstrap account when one is configured. An account that
// already holds the email is left as is.
func (s *Service) EnsureSeed(ctx context.Context, in account.CreateInput) error {
	if in.Email == "" || in.Password == "" {
		return nil
	}

	_, err := s.Create(ctx, in)

	var conflict *account.ConflictError
	if errors.As(err, &conflict) {
		return nil
	}

	return err
}
