// ABOUTME: Advisory client-side validation for credentials, profiles, and products
// ABOUTME: Catches malformed input before transport; the server stays authoritative

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
)

// PasswordPolicy mirrors the backend's password rules. Pattern is optional and
// is applied on top of the length, uppercase and digit checks.
type PasswordPolicy struct {
	MinLength int
	Pattern   *regexp.Regexp
}

// DefaultPasswordPolicy matches the backend's built-in rules
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// Requirements describes the policy in user-facing words
func (p PasswordPolicy) Requirements() string {
	text := fmt.Sprintf("Password must be at least %d characters long and include at least one uppercase letter and one number.", p.MinLength)
	if p.Pattern != nil {
		text += fmt.Sprintf(" It must also match %s.", p.Pattern)
	}
	return text
}

// Check returns a description of the first rule the password breaks, or ""
func (p PasswordPolicy) Check(password string) string {
	if len(password) < p.MinLength {
		return fmt.Sprintf("must be at least %d characters long", p.MinLength)
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return "must contain at least one uppercase letter"
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		return "must contain at least one digit"
	}
	if p.Pattern != nil && !p.Pattern.MatchString(password) {
		return "does not meet the password requirements"
	}
	return ""
}

// FieldError is one failed rule on one field
type FieldError struct {
	Field   string
	Message string
}

// Error is a client-side validation failure. It matches client.ErrValidation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return client.ErrValidation
}

// Field returns the message for name, or "" if that field passed
func (e *Error) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

// Validator runs struct-tag validation plus the configured password policy
type Validator struct {
	v      *validator.Validate
	policy PasswordPolicy
}

// New creates a validator enforcing policy for password fields
func New(policy PasswordPolicy) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	val := &Validator{v: v, policy: policy}
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return policy.Check(fl.Field().String()) == ""
	})
	return val
}

// Policy returns the password policy in force
func (val *Validator) Policy() PasswordPolicy {
	return val.policy
}

// Struct validates s and converts failures into *Error
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: val.message(fe),
		})
	}
	return out
}

// Var validates a single value against tag, reporting failures under field
func (val *Validator) Var(field string, value interface{}, tag string) error {
	err := val.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: field, Message: val.message(fe)})
	}
	return out
}

func (val *Validator) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "password":
		return val.policy.Check(fmt.Sprint(fe.Value()))
	default:
		return "is invalid"
	}
}

// Credentials is the login form
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// Login validates login input
func (val *Validator) Login(email, password string) error {
	return val.Struct(Credentials{Email: email, Password: password})
}

// Register validates sign-up input
func (val *Validator) Register(name, email, password string) error {
	return val.Struct(Registration{Name: strings.TrimSpace(name), Email: email, Password: password})
}

// profileUpdate carries pointer fields so unset values are skipped
type profileUpdate struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,password"`
}

// ProfileUpdate validates the fields present in a profile update
func (val *Validator) ProfileUpdate(u client.ProfileUpdate) error {
	if u.Empty() {
		return &Error{Fields: []FieldError{{Field: "profile", Message: "at least one field is required"}}}
	}
	return val.Struct(profileUpdate{Name: u.Name, Email: u.Email, Password: u.Password})
}
