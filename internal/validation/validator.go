package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	TagEmail    = "account_email"
	TagPassword = "strong_password"

	PasswordRuleMessage = "Password must be at least 8 characters long and include uppercase, lowercase, number, and special character"
)

// Validator runs struct-tag validation and reports every failing field at once.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})

	// only fails on programmer error (duplicate tag), so panicking at startup is fine
	mustRegister(v, TagEmail, func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	mustRegister(v, TagPassword, func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Fields validates in and returns field->message for every invalid field,
// or nil when in is valid.
func (val *Validator) Fields(in any) map[string]string {
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe.Field(), fe.Tag())
	}

	return out
}

func message(field, tag string) string {
	label := field
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}

	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return label + " cannot be empty"
	case TagEmail:
		return "Invalid email format"
	case TagPassword:
		return PasswordRuleMessage
	default:
		return label + " is invalid"
	}
}
