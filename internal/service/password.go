package service

import "errors"

var ErrWeakPassword = errors.New("password does not meet the minimum requirements")

// PasswordPolicy is the registration-time password check. Kept deliberately
// simple: a minimum length, no composition rules.
type PasswordPolicy struct {
	MinLength int
}

// DefaultPasswordPolicy requires at least 8 characters.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// Validate returns ErrWeakPassword when the password fails the policy.
func (p PasswordPolicy) Validate(password string) error {
	min := p.MinLength
	if min <= 0 {
		min = 8
	}
	if len(password) < min {
		return ErrWeakPassword
	}
	return nil
}
