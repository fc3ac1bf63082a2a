package account

import "time"

// Account is the stored user record. PasswordHash never leaves the service.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// View is the public projection of an Account.
type View struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Account) View() View {
	return View{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func Views(accounts []Account) []View {
	out := make([]View, 0, len(accounts))

	for _, a := range accounts {
		out = append(out, a.View())
	}

	return out
}

// CreateParams is what a store needs to insert a new row; the store assigns ID and timestamps.
type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
}

type CreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,account_email"`
	Password string `json:"password" validate:"required,strong_password"`
}

// UpdateInput carries a partial update: nil fields are left untouched.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,account_email"`
	Password *string `json:"password" validate:"omitnil,strong_password"`
}
