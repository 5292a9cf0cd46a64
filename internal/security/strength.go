package security

import (
	"errors"
	"unicode"
)

const minPasswordLength = 12

var (
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordNoUpper  = errors.New("password must contain an uppercase letter")
	ErrPasswordNoLower  = errors.New("password must contain a lowercase letter")
	ErrPasswordNoDigit  = errors.New("password must contain a digit")
	ErrPasswordNoSymbol = errors.New("password must contain a symbol")
)

// IsPolicyViolation reports whether err is a password policy failure, as
// opposed to an unexpected error. Policy failures map to input-validation
// responses at the handler boundary.
func IsPolicyViolation(err error) bool {
	for _, rule := range []error{
		ErrPasswordTooShort,
		ErrPasswordNoUpper,
		ErrPasswordNoLower,
		ErrPasswordNoDigit,
		ErrPasswordNoSymbol,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}

// CheckPasswordStrength enforces the admin password policy. Rules are checked
// in order and the first unmet rule is returned.
func CheckPasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper {
		return ErrPasswordNoUpper
	}
	if !hasLower {
		return ErrPasswordNoLower
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	if !hasSymbol {
		return ErrPasswordNoSymbol
	}
	return nil
}
