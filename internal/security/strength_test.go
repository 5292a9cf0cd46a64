package security

import (
	"errors"
	"testing"
)

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     error
	}{
		{"short1!", ErrPasswordTooShort},
		{"alllowercase123!", ErrPasswordNoUpper},
		{"ALLUPPERCASE123!", ErrPasswordNoLower},
		{"NoDigitsHere!!", ErrPasswordNoDigit},
		{"NoSymbolsHere123", ErrPasswordNoSymbol},
		{"Valid$Password123", nil},
	}

	for _, tc := range cases {
		err := CheckPasswordStrength(tc.password)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.password, err, tc.want)
		}
	}
}

func TestStrengthShortCircuitsOnFirstRule(t *testing.T) {
	// Violates every rule; length is reported first.
	if err := CheckPasswordStrength(""); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("got %v, want %v", err, ErrPasswordTooShort)
	}
}
