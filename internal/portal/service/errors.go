package service

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Form field keys carried by FieldErrors. The suffix tells the page which
// form (login or register) the message belongs to.
const (
	FieldEmailLogin    = "email_login"
	FieldPasswordLogin = "password_login"
	FieldEmailReg      = "email_reg"
	FieldPasswordReg   = "password_reg"
)

const (
	msgEmailNotInUse     = "Email not in use"
	msgIncorrectPassword = "Incorrect password"
	msgEmailInUse        = "Email already in use"
	msgEmailRequired     = "Email is required"
	msgPasswordRequired  = "Password is required"
)

// FieldErrors is a user-facing validation failure keyed by form field.
// Handlers render it next to the inputs and respond 400.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	var b strings.Builder
	for i, k := range slices.Sorted(maps.Keys(e)) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e[k])
	}
	return b.String()
}

// IsFieldError unwraps err to FieldErrors if it is one.
func IsFieldError(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
