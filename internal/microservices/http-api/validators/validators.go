// Package validators holds the field rules shared by request binding and the
// services. Each validator is pure and returns nil or a *FieldError.
package validators

import (
	"fmt"
	"regexp"
	"time"
)

// ReservedUsername is served by /users/me/ and cannot belong to an account.
const ReservedUsername = "me"

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// FieldError describes why a single value was rejected.
type FieldError struct {
	Value   any
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Username rejects the reserved name and any character outside [A-Za-z0-9_.@+-].
func Username(v string) error {
	if v == ReservedUsername {
		return &FieldError{Value: v, Message: fmt.Sprintf("username %q is reserved", ReservedUsername)}
	}
	if !usernamePattern.MatchString(v) {
		return &FieldError{Value: v, Message: "username may contain only letters, digits and @/./+/-/_ characters"}
	}
	return nil
}

// Slug rejects any character outside [A-Za-z0-9_-].
func Slug(v string) error {
	if !slugPattern.MatchString(v) {
		return &FieldError{Value: v, Message: "slug may contain only letters, digits and _/- characters"}
	}
	return nil
}

// Year rejects years after the current calendar year.
func Year(v int) error {
	return yearAt(v, time.Now())
}

func yearAt(v int, now time.Time) error {
	if v > now.Year() {
		return &FieldError{Value: v, Message: "year cannot be later than the current year"}
	}
	return nil
}
