package service

import (
	"fmt"
	"regexp"
)

const (
	nameMinLen     = 20
	nameMaxLen     = 60
	passwordMinLen = 8
	passwordMaxLen = 16
	addressMaxLen  = 400
)

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	specialPattern = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// The violation helpers collect every broken rule for a field instead of
// stopping at the first, so callers can report the full list at once. The
// label names the field in messages ("name", "owner name", ...).

func nameViolations(label, name string) []string {
	var violations []string
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		violations = append(violations, fmt.Sprintf("%s must be between %d and %d characters", label, nameMinLen, nameMaxLen))
	}
	return violations
}

func emailViolations(label, email string) []string {
	var violations []string
	if !emailPattern.MatchString(email) {
		violations = append(violations, fmt.Sprintf("%s must be a valid email address", label))
	}
	return violations
}

func passwordViolations(label, password string) []string {
	var violations []string
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		violations = append(violations, fmt.Sprintf("%s must be between %d and %d characters", label, passwordMinLen, passwordMaxLen))
	}
	if !upperPattern.MatchString(password) {
		violations = append(violations, fmt.Sprintf("%s must contain at least one uppercase letter", label))
	}
	if !specialPattern.MatchString(password) {
		violations = append(violations, fmt.Sprintf("%s must contain at least one special character", label))
	}
	return violations
}

func addressViolations(label, address string) []string {
	var violations []string
	if len(address) > addressMaxLen {
		violations = append(violations, fmt.Sprintf("%s must be at most %d characters", label, addressMaxLen))
	}
	return violations
}

// accountViolations validates the full account field set.
func accountViolations(name, email, password, address string) []string {
	var violations []string
	violations = append(violations, nameViolations("name", name)...)
	violations = append(violations, emailViolations("email", email)...)
	violations = append(violations, passwordViolations("password", password)...)
	violations = append(violations, addressViolations("address", address)...)
	return violations
}
