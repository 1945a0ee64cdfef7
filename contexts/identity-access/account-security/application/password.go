package application

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	domainerrors "modpanel/contexts/identity-access/account-security/domain/errors"
)

const minPasswordLength = 8

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate password against a bcrypt hash.
func VerifyPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the account password policy: minimum
// length plus upper-case, lower-case, digit, and symbol character classes.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", domainerrors.ErrWeakPassword, minPasswordLength)
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
	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain at least one uppercase letter", domainerrors.ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain at least one lowercase letter", domainerrors.ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain at least one number", domainerrors.ErrWeakPassword)
	case !hasSymbol:
		return fmt.Errorf("%w: must contain at least one special character", domainerrors.ErrWeakPassword)
	}
	return nil
}

// passwordReused reports whether the candidate matches any historical hash.
// Comparison goes through bcrypt, never plain equality.
func passwordReused(password string, history []string) bool {
	for _, oldHash := range history {
		if VerifyPassword(password, oldHash) {
			return true
		}
	}
	return false
}
